package domain

import "fmt"

// ValidationError marks malformed or out-of-range input. The field name
// travels with the error so the API layer can point at the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrMissingField builds a ValidationError for a required field left empty
func ErrMissingField(field string) *ValidationError {
	return &ValidationError{Field: field, Message: "required field is missing or empty"}
}

// ErrInvalidField builds a ValidationError for a malformed field value
func ErrInvalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
