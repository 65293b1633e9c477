package errors

import (
	"strings"
	"unicode"
)

// ValidateOutputPath validates a user-supplied output file path for safety.
// It prevents path traversal into unexpected locations and ensures a
// reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateLevelID validates a stored level identifier. IDs are UUIDs or
// similar opaque tokens: short, printable, with no path separators.
func ValidateLevelID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "level id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidInput, "level id too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "level id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "/\\") {
		return New(ErrCodeInvalidInput, "level id cannot contain path separators")
	}

	return nil
}
