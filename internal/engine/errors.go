package engine

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// ErrTableNotFound means the tabular container is absent from the
	// page. Non-fatal: the orchestrator skips that format/stat-kind
	// combination and continues with its siblings.
	ErrTableNotFound = errors.New("stats table not found in page")

	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrTimeout         = errors.New("request timeout")
	ErrParseError      = errors.New("failed to parse response")
)

// ErrorCode classifies an extraction failure.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTimeout      ErrorCode = "TIMEOUT"
	ErrCodeNetworkError ErrorCode = "NETWORK_ERROR"
	ErrCodeParseError   ErrorCode = "PARSE_ERROR"
	ErrCodeBrowserError ErrorCode = "BROWSER_ERROR"
)

// EngineError wraps extraction errors with a code and context.
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
}

func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches EngineErrors by code.
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError.
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{Code: code, Message: message, Underlying: err}
}
