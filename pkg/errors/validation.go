package errors

import (
	"math"
	"strings"
)

// ValidateRange checks that a named parameter is finite and within [min, max].
// It is used for the slider-backed model parameters, whose domains are closed
// intervals.
func ValidateRange(name string, v, min, max float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be a finite number", name)
	}
	if v < min || v > max {
		return New(ErrCodeInvalidParams, "%s out of range: %g (must be within [%g, %g])", name, v, min, max)
	}
	return nil
}

// ValidateOutputPath validates a chart output path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Maximum length of 500 characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	if strings.ContainsFunc(path, func(r rune) bool { return r == '\x00' || r < 0x20 }) {
		return New(ErrCodeInvalidInput, "output path contains invalid characters")
	}
	return nil
}

// ValidateRedisURL validates a cache backend URL.
// Only redis:// and rediss:// schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}
	return nil
}
