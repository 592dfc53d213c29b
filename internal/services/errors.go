package services

import "errors"

// Dashboard service errors
var (
	// Dataset errors
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrStudentNotFound = errors.New("student not found")

	// Upload errors
	ErrEmptyUpload    = errors.New("upload is empty")
	ErrUploadTooLarge = errors.New("upload exceeds size limit")

	// Query errors
	ErrInvalidCategory = errors.New("invalid risk category")
	ErrUnknownChart    = errors.New("unknown chart")
)
