package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline error taxonomy. Each stage wraps its failures around one of these
// sentinels so the orchestrator can map them to a stage outcome.
var (
	ErrFetch           = errors.New("fetch failed")
	ErrEmptyDocument   = errors.New("document contains no extractable text")
	ErrExtraction      = errors.New("field extraction failed")
	ErrSchemaViolation = errors.New("response yielded no usable structure")
	ErrPersistence     = errors.New("ledger append failed")
	ErrNotification    = errors.New("notification failed")

	ErrInvalidInput = errors.New("invalid input")
)

// NewAppError builds a typed error with a stable code for logging.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
