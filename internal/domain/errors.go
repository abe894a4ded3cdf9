package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Common domain error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeUpstream       = "UPSTREAM_ERROR"
	ErrCodeMalformedReply = "MALFORMED_MODEL_OUTPUT"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

var (
	ErrQANotFound    = NewDomainError(ErrCodeNotFound, "question not found")
	ErrEmptyQuestion = NewDomainError(ErrCodeValidation, "question must not be empty")
	ErrEmptyAnswer   = NewDomainError(ErrCodeValidation, "answer must not be empty")
	ErrEmptyMessage  = NewDomainError(ErrCodeValidation, "message must not be empty")

	// ErrMalformedModelOutput covers matcher/evaluator replies that do not
	// conform to their JSON contracts. Deliberately fatal rather than
	// treated as a pass.
	ErrMalformedModelOutput = NewDomainError(ErrCodeMalformedReply, "model returned non-conforming output")
)
