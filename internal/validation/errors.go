// Package validation implements the per-field rule checks of the profile
// engine: presence, length, pattern, numeric range, choice membership and
// cross-field rules. All checks are stateless; cross-field rules receive
// the values they compare explicitly.
package validation

import "fmt"

// Code classifies why a field failed validation.
type Code string

const (
	CodeMissing       Code = "MISSING"
	CodeTooLong       Code = "TOO_LONG"
	CodeInvalidFormat Code = "INVALID_FORMAT"
	CodeOutOfRange    Code = "OUT_OF_RANGE"
	CodeInvalidChoice Code = "INVALID_CHOICE"
	CodeMismatch      Code = "MISMATCH"
	CodeSameAsOld     Code = "SAME_AS_OLD"
)

// FieldError is one client-side validation failure, addressed by the
// same field path the server uses in its error responses.
type FieldError struct {
	Field   string
	Code    Code
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func missing(field string) *FieldError {
	return &FieldError{Field: field, Code: CodeMissing, Message: "this field is required"}
}
