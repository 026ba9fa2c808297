package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/config"
)

// NewClient builds a completion client from configuration. The provider
// selects the implementation; both satisfy the same Client contract.
func NewClient(cfg *config.LLMConfig, logger *zap.Logger) (Client, error) {
	clientCfg := &Config{
		Endpoint:  cfg.Endpoint,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		MaxTokens: cfg.MaxTokens,
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(clientCfg, logger)
	case "anthropic":
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
