// Package llm provides completion-endpoint clients for SQL generation.
package llm

import "context"

// GenerateResponseResult holds a completion plus its token accounting.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client defines the contract the pipeline requires from a completion
// endpoint: a text completion given a prompt, with token-usage accounting.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a completion for the prompt. The context
	// carries the per-call timeout; a timed-out call is a generation
	// failure, never retried here.
	GenerateResponse(ctx context.Context, prompt, systemMessage string, temperature float64) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}
