// Package upload validates incoming file uploads before any conversion
// work begins.
package upload

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	// KindExtension means the file extension is not on the allow-list.
	KindExtension Kind = "extension"
	// KindSize means the upload exceeds the configured maximum size.
	KindSize Kind = "size"
)

// ValidationError reports why an upload was rejected.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validator checks uploads against an extension allow-list and a size cap.
type Validator struct {
	maxSize    int64
	extensions []string
}

// NewValidator creates a Validator. Extensions are compared without the
// leading dot and case-insensitively.
func NewValidator(maxSize int64, extensions []string) *Validator {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		normalized = append(normalized, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}
	return &Validator{maxSize: maxSize, extensions: normalized}
}

// Check validates the filename and byte size of an upload. It returns a
// *ValidationError on rejection and nil otherwise. No side effects.
func (v *Validator) Check(filename string, size int64) error {
	if size > v.maxSize {
		return &ValidationError{
			Kind:    KindSize,
			Message: fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", v.maxSize),
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, allowed := range v.extensions {
		if ext == allowed {
			return nil
		}
	}
	return &ValidationError{
		Kind:    KindExtension,
		Message: fmt.Sprintf("unsupported file type. Allowed types: %s", strings.Join(v.extensions, ", ")),
	}
}

// MaxSize returns the configured size cap in bytes.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}
