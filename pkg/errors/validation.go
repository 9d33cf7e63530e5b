package errors

import (
	"strings"
	"unicode"
)

// maxManifestSize bounds manifest text accepted from users.
const maxManifestSize = 1 << 20

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 214 characters (the npm registry limit)
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidPackage, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateManifestText checks that manifest text is present and of sane size.
func ValidateManifestText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidManifest, "package.json content is empty")
	}
	if len(text) > maxManifestSize {
		return New(ErrCodeInvalidManifest, "package.json too large (max %d bytes)", maxManifestSize)
	}
	return nil
}
