package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds node display names accepted by imports.
const maxNameLength = 256

// ValidateNodeName validates a node display name coming from an import file.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters (including null bytes and newlines)
//   - Maximum length of 256 characters
//
// Names are otherwise free-form; facility labels like "B2_冰水泵1" are valid.
func ValidateNodeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains invalid control characters")
		}
	}

	return nil
}

// ValidateMongoURI validates a MongoDB connection string for the mongo backend.
// It only checks the scheme; the driver reports anything else on connect.
func ValidateMongoURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "mongo URI cannot be empty")
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "mongo URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}

// ValidateAddr validates a host:port pair such as a listen or Redis address.
func ValidateAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidInput, "address cannot be empty")
	}

	i := strings.LastIndex(addr, ":")
	if i < 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidInput, "address %q must include a port", addr)
	}

	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidInput, "address %q has a non-numeric port", addr)
		}
	}

	return nil
}
