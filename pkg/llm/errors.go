package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies completion-endpoint failures.
type ErrorType string

const (
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeEndpoint ErrorType = "endpoint"
	ErrorTypeModel    ErrorType = "model"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error is a structured completion-endpoint error with classification.
// The orchestrator treats any Error as fatal for the request; the Retryable
// flag exists for policy layered above this core.
type Error struct {
	Type       ErrorType
	Message    string
	Retryable  bool
	Cause      error
	StatusCode int
	Model      string
	Endpoint   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured completion-endpoint error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error from a provider SDK into a structured
// Error, so provider failures stay distinguishable from generic ones.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	classified := func(errType ErrorType, message string, retryable bool) *Error {
		e := NewError(errType, message, retryable, err)
		e.StatusCode = statusCode
		return e
	}

	// Authentication errors (not retryable)
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") {
		return classified(ErrorTypeAuth, "authentication failed", false)
	}

	// Model not found (not retryable without a config change)
	if strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")) {
		return classified(ErrorTypeModel, "model not found", false)
	}

	// Endpoint not found (not retryable without a config change)
	if strings.Contains(errStr, "404") {
		return classified(ErrorTypeEndpoint, "endpoint not found", false)
	}

	// Connection errors
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		return classified(ErrorTypeEndpoint, "connection failed", true)
	}

	// Timeout and deadline exceeded
	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		return classified(ErrorTypeEndpoint, "request timeout", true)
	}

	// Rate limiting
	if strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") {
		return classified(ErrorTypeUnknown, "rate limited", true)
	}

	// 5xx server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") {
		return classified(ErrorTypeEndpoint, "server error", true)
	}

	return classified(ErrorTypeUnknown, "llm error", false)
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Type
	}
	return ErrorTypeUnknown
}
