package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline specific errors
	ErrMalformedDocument       ErrorCode = "MALFORMED_DOCUMENT"
	ErrAnswerKeyMissing        ErrorCode = "ANSWER_KEY_MISSING"
	ErrUnsupportedQuestionType ErrorCode = "UNSUPPORTED_QUESTION_TYPE"
	ErrAssistService           ErrorCode = "ASSIST_SERVICE_ERROR"
	ErrJobNotFound             ErrorCode = "JOB_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
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
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewMalformedDocumentError(message string) *DomainError {
	return NewError(ErrMalformedDocument, message, nil)
}

func NewAnswerKeyMissingError(questionID string) *DomainError {
	return NewError(ErrAnswerKeyMissing, fmt.Sprintf("No answer key found for question: %s", questionID), nil)
}

func NewUnsupportedQuestionTypeError(questionType string) *DomainError {
	return NewError(ErrUnsupportedQuestionType, fmt.Sprintf("Unsupported question type: %s", questionType), nil)
}

func NewAssistServiceError(err error) *DomainError {
	return NewError(ErrAssistService, "Failed to process with essay assist service", err)
}

func NewJobNotFoundError(jobID string) *DomainError {
	return NewError(ErrJobNotFound, fmt.Sprintf("Job not found with ID: %s", jobID), nil)
}
