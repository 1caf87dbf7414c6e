package shared

import (
	"fmt"
	"strings"
)

// FieldError is a single field-scoped validation failure. Message carries
// enough context (conflicting record, maximum allowed amount) for the caller
// to correct the input without a second round trip.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors collects field-scoped failures so a form with several
// invalid fields gets them all back in one response instead of fail-fast.
type ValidationErrors []FieldError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Add appends a field-scoped failure
func (v *ValidationErrors) Add(field, code, message string) {
	*v = append(*v, FieldError{Field: field, Code: code, Message: message})
}

// HasErrors reports whether any failure was collected
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// ErrOrNil returns the collection as an error, or nil when empty. Use it at
// the end of a validation pass.
func (v ValidationErrors) ErrOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// NewFieldValidationError builds a ValidationErrors with a single entry.
// Used where checks are deliberately sequenced for scenario-specific messages.
func NewFieldValidationError(field, code, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Code: code, Message: message}}
}
