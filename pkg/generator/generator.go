// Package generator turns an optimized question and a schema description
// into SQL via the completion endpoint.
package generator

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/llm"
	"github.com/sqlscribe/sqlscribe/pkg/models"
	"github.com/sqlscribe/sqlscribe/pkg/prompts"
)

// Generator defines the SQL generation contract.
type Generator interface {
	// GenerateSQL produces SQL for the question against the schema.
	// includeUsage controls whether token accounting is attached.
	GenerateSQL(ctx context.Context, questionText, schema string, includeUsage bool) (*models.GenerationResult, error)
}

// sqlGenerator implements Generator on a completion client.
type sqlGenerator struct {
	client  llm.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a Generator. timeout bounds each completion call; zero means
// no explicit bound beyond the caller's context.
func New(client llm.Client, timeout time.Duration, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sqlGenerator{
		client:  client,
		timeout: timeout,
		logger:  logger.Named("generator"),
	}
}

// GenerateSQL implements Generator. Temperature is fixed at 0 for
// determinism; output length is bounded by the client configuration.
func (g *sqlGenerator) GenerateSQL(ctx context.Context, questionText, schema string, includeUsage bool) (*models.GenerationResult, error) {
	prompt := prompts.BuildSQLGenerationPrompt(schema, questionText)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.GenerateResponse(ctx, prompt, prompts.SQLGenerationSystemPrompt, 0)
	if err != nil {
		return nil, err
	}

	result := &models.GenerationResult{
		SQL: StripSQLFences(resp.Content),
	}
	if includeUsage {
		result.TokenUsage = &models.TokenUsage{
			PromptTokens:     resp.PromptTokens,
			CompletionTokens: resp.CompletionTokens,
			TotalTokens:      resp.TotalTokens,
		}
	}

	g.logger.Debug("SQL generated",
		zap.String("model", g.client.GetModel()),
		zap.Int("sql_len", len(result.SQL)))

	return result, nil
}

var sqlFencePattern = regexp.MustCompile("(?i)```sql|```")

// StripSQLFences removes Markdown code-fence artifacts and surrounding
// whitespace from generator output. Idempotent and tolerant of absent
// fences.
func StripSQLFences(raw string) string {
	return strings.TrimSpace(sqlFencePattern.ReplaceAllString(raw, ""))
}
