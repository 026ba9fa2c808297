package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlscribe/sqlscribe/pkg/llm"
)

func TestGenerateSQL_StripsFences(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{
			Content: "```sql\nSELECT COUNT(*) FROM users;\n```",
		}, nil
	}

	gen := New(mock, 0, nil)
	result, err := gen.GenerateSQL(context.Background(), "how many users?", "Table users:\n  - id (integer)\n", false)

	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM users;", result.SQL)
}

func TestGenerateSQL_TemperatureIsZero(t *testing.T) {
	mock := llm.NewMockClient()
	var gotTemperature float64 = -1
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (*llm.GenerateResponseResult, error) {
		gotTemperature = temperature
		return &llm.GenerateResponseResult{Content: "SELECT 1"}, nil
	}

	gen := New(mock, 0, nil)
	_, err := gen.GenerateSQL(context.Background(), "q?", "schema", false)

	require.NoError(t, err)
	assert.Equal(t, 0.0, gotTemperature)
}

func TestGenerateSQL_PromptContainsSchemaAndQuestion(t *testing.T) {
	mock := llm.NewMockClient()
	var gotPrompt, gotSystem string
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (*llm.GenerateResponseResult, error) {
		gotPrompt = prompt
		gotSystem = systemMessage
		return &llm.GenerateResponseResult{Content: "SELECT 1"}, nil
	}

	gen := New(mock, 0, nil)
	_, err := gen.GenerateSQL(context.Background(), "how many orders?", "Table orders:\n  - id (integer)\n", false)

	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "Table orders:")
	assert.Contains(t, gotPrompt, "how many orders?")
	assert.Contains(t, gotSystem, "PostgreSQL")
}

func TestGenerateSQL_IncludeUsage(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{
			Content:          "SELECT 1",
			PromptTokens:     100,
			CompletionTokens: 20,
			TotalTokens:      120,
		}, nil
	}

	gen := New(mock, 0, nil)

	withUsage, err := gen.GenerateSQL(context.Background(), "q?", "schema", true)
	require.NoError(t, err)
	require.NotNil(t, withUsage.TokenUsage)
	assert.Equal(t, 100, withUsage.TokenUsage.PromptTokens)
	assert.Equal(t, 20, withUsage.TokenUsage.CompletionTokens)
	assert.Equal(t, 120, withUsage.TokenUsage.TotalTokens)

	withoutUsage, err := gen.GenerateSQL(context.Background(), "q?", "schema", false)
	require.NoError(t, err)
	assert.Nil(t, withoutUsage.TokenUsage)
}

func TestGenerateSQL_PropagatesClientError(t *testing.T) {
	mock := llm.NewMockClient()
	clientErr := errors.New("connection refused")
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, systemMessage string, temperature float64) (*llm.GenerateResponseResult, error) {
		return nil, clientErr
	}

	gen := New(mock, 0, nil)
	result, err := gen.GenerateSQL(context.Background(), "q?", "schema", false)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, clientErr)
}

func TestStripSQLFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sql fence", "```sql\nSELECT 1;\n```", "SELECT 1;"},
		{"bare fence", "```\nSELECT 1;\n```", "SELECT 1;"},
		{"uppercase tag", "```SQL\nSELECT 1;\n```", "SELECT 1;"},
		{"no fence", "SELECT 1;", "SELECT 1;"},
		{"surrounding whitespace", "  \nSELECT 1;\n  ", "SELECT 1;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripSQLFences(tt.input))
		})
	}
}

func TestStripSQLFences_Idempotent(t *testing.T) {
	once := StripSQLFences("```sql\nSELECT 1;\n```")
	assert.Equal(t, once, StripSQLFences(once))
	assert.False(t, strings.Contains(once, "```"))
}
