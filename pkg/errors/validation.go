package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxLicenseNameLength = 256
	maxSessionNameLength = 128
)

// ValidateLicenseName validates one blacklist entry.
//
// License names are free text as reported by the registry, so the rules only
// reject what cannot be a license name:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateLicenseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidLicense, "license name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxLicenseNameLength {
		return New(ErrCodeInvalidLicense, "license name too long (max %d characters)", maxLicenseNameLength)
	}
	if containsControl(name) {
		return New(ErrCodeInvalidLicense, "license name contains invalid control characters")
	}
	return nil
}

// ValidateLicenseNames validates every entry of a blacklist.
func ValidateLicenseNames(names []string) error {
	for _, n := range names {
		if err := ValidateLicenseName(n); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSessionName validates a display name for an uploaded session,
// typically the uploaded file's name. It ensures the name is a simple label
// without path components.
func ValidateSessionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSession, "session name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxSessionNameLength {
		return New(ErrCodeInvalidSession, "session name too long (max %d characters)", maxSessionNameLength)
	}
	if containsControl(name) {
		return New(ErrCodeInvalidSession, "session name contains invalid control characters")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidSession, "session name cannot contain path components")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

func containsControl(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}
