package errors

import (
	"strings"
	"unicode"
)

// maxStationCodeLength bounds codes accepted from untrusted callers.
const maxStationCodeLength = 64

// ValidateStationCode checks a station code received from a caller before it
// reaches the registry lookup.
//
// Rules:
//   - No empty codes
//   - No control characters
//   - Maximum length of 64 characters
//
// Spaces are allowed: datasets may use codes like "KG 1".
//
// Whether the code actually exists is decided by the route finder, which
// reports ErrCodeInvalidStationCode for unknown codes.
func ValidateStationCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidInput, "station code cannot be empty")
	}
	if len(code) > maxStationCodeLength {
		return New(ErrCodeInvalidInput, "station code too long (max %d characters)", maxStationCodeLength)
	}
	for _, r := range code {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "station code contains invalid characters: %q", code)
		}
	}
	return nil
}

// ValidateURL validates a dataset URL string.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateDatasetName validates the name a dataset is stored under.
// Names are used as SQLite keys and Mongo document ids, so path separators
// and control characters are rejected.
func ValidateDatasetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "dataset name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "dataset name too long (max 128 characters)")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "dataset name cannot contain path components: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "dataset name contains invalid control characters")
		}
	}
	return nil
}
