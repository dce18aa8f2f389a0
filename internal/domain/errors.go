package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Quiz pipeline errors
	CodeQuizNotFound      ErrorCode = "QUIZ_NOT_FOUND"
	CodeConnection        ErrorCode = "CONNECTION_ERROR"
	CodeExtraction        ErrorCode = "EXTRACTION_ERROR"
	CodeModelCall         ErrorCode = "MODEL_CALL_ERROR"
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeEmptyQuiz         ErrorCode = "EMPTY_QUIZ"
	CodeConfiguration     ErrorCode = "CONFIGURATION_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows errors.Is / errors.As to reach the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

// NewConnectionError wraps an upstream fetch failure (surfaced as 502)
func NewConnectionError(message string, cause error) *DomainError {
	return NewError(CodeConnection, message, cause)
}

// NewExtractionError indicates the page was fetched but could not be parsed
func NewExtractionError(message string, cause error) *DomainError {
	return NewError(CodeExtraction, message, cause)
}

// NewModelCallError indicates the completion call failed after retries
func NewModelCallError(message string, cause error) *DomainError {
	return NewError(CodeModelCall, message, cause)
}

// NewMalformedResponseError indicates no parseable JSON object in model output
func NewMalformedResponseError(message string, cause error) *DomainError {
	return NewError(CodeMalformedResponse, message, cause)
}

// NewEmptyQuizError indicates the pipeline produced zero valid questions
func NewEmptyQuizError() *DomainError {
	return NewError(CodeEmptyQuiz, "The model failed to generate valid quiz questions. Please try again.", nil)
}

// NewConfigurationError indicates missing or invalid credentials/config,
// raised before any network call is attempted
func NewConfigurationError(message string) *DomainError {
	return NewError(CodeConfiguration, message, nil)
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of field validation failures
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, detail string) ValidationError {
	return ValidationError{Field: field, Message: detail}
}
