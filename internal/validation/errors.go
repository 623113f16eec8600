package validation

import "strings"

// Kind classifies why a field was rejected.
type Kind string

const (
	KindInvalidFormat Kind = "invalid_format"
	KindRangeError    Kind = "range_error"
	KindEnumMismatch  Kind = "enum_mismatch"
	KindWeakPassword  Kind = "weak_password"
	KindTypeMismatch  Kind = "type_mismatch"
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors aggregates every failure found in one input so callers can
// report all problems at once instead of stopping at the first.
type FieldErrors []FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether a specific field was rejected.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ByField returns the first message recorded per field, keyed by field name.
// Templates use this to show an inline error next to each form input.
func (e FieldErrors) ByField() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message
		}
	}
	return out
}
