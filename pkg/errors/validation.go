package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates one component (group, name, classifier,
// extension or version) of an artifact coordinate.
//
// The validation rules are intentionally conservative because coordinate
// parts end up in filesystem paths probed by the javadir store:
//   - No control characters or null bytes
//   - No path traversal sequences (..)
//   - No backslashes
//   - No colons (the coordinate separator)
//   - Maximum length of 256 characters
//
// Empty parts are accepted; callers decide which parts are required.
func ValidateCoordinatePart(field, value string) error {
	if len(value) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", field)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid control characters", field)
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		":",    // Coordinate separator
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", field, pattern)
		}
	}

	return nil
}

// groupRegex matches Maven groupIds as well as the slash-separated
// pseudo groups ("JPP/maven") used by the javadir layout.
var groupRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-/]*$`)

// ValidateGroup validates a group identifier.
func ValidateGroup(group string) error {
	if group == "" {
		return New(ErrCodeInvalidCoordinate, "group cannot be empty")
	}
	if err := ValidateCoordinatePart("group", group); err != nil {
		return err
	}
	if !groupRegex.MatchString(group) || strings.Contains(group, "//") {
		return New(ErrCodeInvalidCoordinate, "invalid group: %q", group)
	}
	return nil
}

// nameRegex matches Maven artifactIds.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.\-+]*$`)

// ValidateName validates an artifact name.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCoordinate, "name cannot be empty")
	}
	if err := ValidateCoordinatePart("name", name); err != nil {
		return err
	}
	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidCoordinate, "invalid name: %q", name)
	}
	return nil
}

// ValidatePath validates a relative path below a store root.
// It prevents path traversal and rejects absolute paths.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a repository URL.
// Only file, http and https schemes are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") &&
		!strings.HasPrefix(rawURL, "https://") &&
		!strings.HasPrefix(rawURL, "file:") {
		return New(ErrCodeInvalidInput, "URL must use file, http or https scheme")
	}

	return nil
}
