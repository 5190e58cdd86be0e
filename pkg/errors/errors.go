package errors

import (
	"fmt"
	"net/http"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "NotFound", "InvalidTransition")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, ids, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError":
		return http.StatusBadRequest
	case "NotFound":
		return http.StatusNotFound
	case "InvalidTransition", "Conflict":
		return http.StatusConflict
	case "Unauthorized":
		return http.StatusUnauthorized
	case "InternalError":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError("InvalidRequest", message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError("ValidationError", message, fmt.Sprintf("Field: %s", field))
}

func NewOrderNotFound(orderID string) *StandardError {
	return NewStandardError("NotFound", "order not found", fmt.Sprintf("Order ID: %s", orderID))
}

func NewItemNotFound(itemID string) *StandardError {
	return NewStandardError("NotFound", "inventory item not found", fmt.Sprintf("Item ID: %s", itemID))
}

func NewInvalidTransition(from, to string) *StandardError {
	return NewStandardError("InvalidTransition", "status transition not allowed",
		fmt.Sprintf("From: %s, To: %s", from, to))
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("InternalError", message, details)
}
