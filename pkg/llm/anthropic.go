package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// AnthropicClient provides access to the Anthropic Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	endpoint  string
	model     string
	maxTokens int
	logger    *zap.Logger
}

// NewAnthropicClient creates a new Anthropic completion client.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	var opts []anthropic.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.Endpoint))
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(cfg.APIKey, opts...),
		endpoint:  cfg.Endpoint,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a completion with usage stats.
func (c *AnthropicClient) GenerateResponse(ctx context.Context, prompt, systemMessage string, temperature float64) (*GenerateResponseResult, error) {
	temp := float32(temperature)

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		System:      systemMessage,
		Temperature: &temp,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, ClassifyError(err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			content = *block.Text
			break
		}
	}
	if content == "" {
		return nil, NewError(ErrorTypeUnknown, "no text content in response", false, nil)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.InputTokens),
		zap.Int("completion_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResponseResult{
		Content:          content,
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *AnthropicClient) GetEndpoint() string {
	return c.endpoint
}

// Ensure AnthropicClient implements Client at compile time.
var _ Client = (*AnthropicClient)(nil)
