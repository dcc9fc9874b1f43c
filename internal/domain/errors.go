package domain

import (
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Pipeline errors
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeGenerationFailed  ErrorCode = "GENERATION_FAILED"
	CodeEmbeddingError    ErrorCode = "EMBEDDING_ERROR"
	CodeVerificationError ErrorCode = "VERIFICATION_ERROR"
	CodeLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches diagnostic key/value data to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Helper constructors for common errors

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

// NewMalformedResponseError wraps a JSON parse failure for a model response.
// The original response text travels in the error context for diagnostics.
func NewMalformedResponseError(cause error, rawText string) *DomainError {
	return NewError(CodeMalformedResponse, "Failed to parse model response as JSON", cause).
		WithContext("raw_response", rawText)
}

// NewGenerationFailedError marks a generation request as fatally failed
// after the single reformatting retry also failed.
func NewGenerationFailedError(cause error) *DomainError {
	return NewError(CodeGenerationFailed, "Question generation failed after retry", cause)
}

func NewEmbeddingError(cause error) *DomainError {
	return NewError(CodeEmbeddingError, "Embedding model call failed", cause)
}

func NewVerificationError(cause error) *DomainError {
	return NewError(CodeVerificationError, "Question verification failed", cause)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

// IsCode reports whether err is a *DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	de, ok := err.(*DomainError)
	if !ok {
		return false
	}
	return de.Code == code
}
