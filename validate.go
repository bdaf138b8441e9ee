package mediastore

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFileSize is the largest declared size accepted for upload (100 MiB).
	MaxFileSize int64 = 100 * 1024 * 1024
	// MaxNameLength is the longest accepted file name, in characters.
	MaxNameLength = 255
)

// ViolationCode identifies which upload policy rule a file broke.
type ViolationCode string

const (
	ViolationSizeExceeded   ViolationCode = "size-exceeded"
	ViolationInvalidSize    ViolationCode = "invalid-size"
	ViolationTypeNotAllowed ViolationCode = "type-not-allowed"
	ViolationInvalidName    ViolationCode = "invalid-name"
)

type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// Validate checks a declared file against the upload policy.
//
// Every rule is evaluated independently and all violations are returned in a
// fixed order (size, type, name). An empty result means the file is acceptable.
// The declared content type is ignored; the stored object's type is always
// inferred from the extension.
func Validate(name string, size int64, _ string) []Violation {
	var violations []Violation

	if size > MaxFileSize {
		violations = append(violations, Violation{
			Code:    ViolationSizeExceeded,
			Message: fmt.Sprintf("File size exceeds maximum limit of %d bytes", MaxFileSize),
		})
	}

	if size < 0 {
		violations = append(violations, Violation{
			Code:    ViolationInvalidSize,
			Message: "File size cannot be negative",
		})
	}

	if ext := Extension(name); !IsAllowedExtension(ext) {
		violations = append(violations, Violation{
			Code:    ViolationTypeNotAllowed,
			Message: typeNotAllowedMessage(ext),
		})
	}

	if !isValidName(name) {
		violations = append(violations, Violation{
			Code:    ViolationInvalidName,
			Message: "Invalid filename",
		})
	}

	return violations
}

func typeNotAllowedMessage(ext string) string {
	if ext == "" {
		return "File has no extension"
	}
	return fmt.Sprintf("File type %s is not allowed", ext)
}

// isValidName requires a non-empty single path segment of at most
// MaxNameLength characters without control characters.
func isValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	if !utf8.ValidString(name) || utf8.RuneCountInString(name) > MaxNameLength {
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	for _, r := range name {
		if r == 0 || unicode.IsControl(r) {
			return false
		}
	}

	return true
}
