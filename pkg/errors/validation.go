package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates a user-supplied identifier such as a layer name or
// a margin group name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 64 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidName, "name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidName, "name %q contains whitespace or control characters", name)
		}
	}

	return nil
}

// ValidatePath validates a chart file path supplied on the command line or
// over HTTP.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// MaxDimension bounds the pixel size of a rendered chart.
const MaxDimension = 16384

// ValidateDimensions validates a viewport size in pixels.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "dimensions must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidInput, "dimensions exceed %d pixels, got %dx%d", MaxDimension, width, height)
	}
	return nil
}
