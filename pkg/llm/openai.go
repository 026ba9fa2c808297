package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClient provides access to OpenAI-compatible completion endpoints.
type OpenAIClient struct {
	client    *openai.Client
	endpoint  string
	model     string
	maxTokens int
	logger    *zap.Logger
}

// Config holds configuration for creating a completion client.
type Config struct {
	Endpoint  string // Base URL, e.g. "https://api.openai.com/v1"
	Model     string // Model name, e.g. "gpt-4o"
	APIKey    string // Optional for local endpoints
	MaxTokens int    // Bound on completion length
}

// NewOpenAIClient creates a new OpenAI-compatible completion client.
func NewOpenAIClient(cfg *Config, logger *zap.Logger) (*OpenAIClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &OpenAIClient{
		client:    openai.NewClientWithConfig(clientConfig),
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a chat completion with usage stats.
func (c *OpenAIClient) GenerateResponse(ctx context.Context, prompt, systemMessage string, temperature float64) (*GenerateResponseResult, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(temperature),
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewError(ErrorTypeUnknown, "no choices in response", false, nil)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResponseResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// GetModel returns the configured model name.
func (c *OpenAIClient) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *OpenAIClient) GetEndpoint() string {
	return c.endpoint
}

// Ensure OpenAIClient implements Client at compile time.
var _ Client = (*OpenAIClient)(nil)
