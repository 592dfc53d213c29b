package gradebook

import "errors"

var (
	ErrEmptyFile         = errors.New("file is empty")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnreadableFile    = errors.New("file could not be read")
	ErrHeaderNotFound    = errors.New("header row not found")
	ErrLayoutMismatch    = errors.New("column structure does not match layout")
	ErrInvalidLayout     = errors.New("invalid layout")
)

// IsLayoutError reports whether err means the file does not have the
// expected gradebook shape.
func IsLayoutError(err error) bool {
	return errors.Is(err, ErrHeaderNotFound) || errors.Is(err, ErrLayoutMismatch)
}
