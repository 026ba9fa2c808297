package apperrors

import "errors"

var (
	// ErrUnsafeSQL indicates the generated SQL failed the safety validation.
	// The message is a fixed, greppable phrase that collaborators pattern-match.
	ErrUnsafeSQL = errors.New("generated SQL is not safe to execute")

	// ErrEmptyQuestion indicates the request carried an empty question.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrInjectionDetected indicates the question itself carried a SQL
	// injection payload and was rejected before any generation.
	ErrInjectionDetected = errors.New("question contains a SQL injection pattern")
)
