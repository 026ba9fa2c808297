package models

// QueryRequest is the inbound request for the query endpoint.
// It is immutable once received.
type QueryRequest struct {
	Question           string `json:"question"`
	AllowModifications bool   `json:"allow_modifications"`
}

// TokenUsage carries token accounting from the completion endpoint.
// Counts are opaque pass-through metadata and are never semantically validated.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// GenerationResult is the output of the SQL generator: the generated SQL
// text plus optional token usage. This is the value cached per unique
// (optimized question, schema) pair.
type GenerationResult struct {
	SQL        string      `json:"sql"`
	TokenUsage *TokenUsage `json:"token_usage,omitempty"`
}

// FormattedResults holds the two renderings of one result set: a monospace
// table for terminal/log display and a JSON-serializable record list with
// normalized values.
type FormattedResults struct {
	Table   string           `json:"table"`
	Records []map[string]any `json:"records"`
}

// QueryResponse is the successful response for the query endpoint.
type QueryResponse struct {
	SQLQuery   string           `json:"sql_query"`
	Table      string           `json:"table"`
	Results    []map[string]any `json:"results"`
	TokenUsage *TokenUsage      `json:"token_usage,omitempty"`
}
