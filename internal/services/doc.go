// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the extraction and analytics
// packages.
//
// DashboardService owns the upload flow: it bounds and hashes an upload,
// serves repeated uploads from the dataset cache, collapses concurrent
// uploads of the same file into a single extraction and announces the
// result to websocket clients. Every read operation takes a dataset ID
// and returns ErrDatasetNotFound when the dataset is not held.
//
// HealthService answers the liveness, readiness and version probes.
//
// # Error Handling
//
// Services return sentinel errors that handlers map to problem responses:
//
//   - ErrDatasetNotFound, ErrStudentNotFound for missing resources
//   - ErrEmptyUpload, ErrUploadTooLarge for rejected uploads
//   - ErrInvalidCategory, ErrUnknownChart for bad query values
//
// Extraction errors from the gradebook package are passed through wrapped.
package services
