package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies with a different
// message still satisfy errors.Is against the sentinels below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NotFoundError returns a NOT_FOUND error naming the missing resource,
// e.g. "Sale not found".
func NotFoundError(resource string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

// ValidationError returns a VALIDATION_ERROR carrying the given message.
func ValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// Error codes
const (
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidInput = "INVALID_INPUT"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
)

// Common domain errors
var (
	ErrNotFound       = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput   = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrValidation     = NewDomainError(CodeValidation, "Validation failed")
	ErrUnauthorized   = NewDomainError(CodeUnauthorized, "Invalid credentials")
	ErrRecordNotFound = errors.New("record not found")
)
