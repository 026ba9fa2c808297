// Package services contains the request orchestration for the
// question-to-SQL pipeline.
package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/apperrors"
	"github.com/sqlscribe/sqlscribe/pkg/cache"
	"github.com/sqlscribe/sqlscribe/pkg/datasource"
	"github.com/sqlscribe/sqlscribe/pkg/formatter"
	"github.com/sqlscribe/sqlscribe/pkg/generator"
	"github.com/sqlscribe/sqlscribe/pkg/models"
	"github.com/sqlscribe/sqlscribe/pkg/question"
	sqlcheck "github.com/sqlscribe/sqlscribe/pkg/sql"
)

// QueryService defines the interface for the question-to-SQL pipeline.
type QueryService interface {
	// Query runs the full pipeline for one request: schema extraction,
	// question optimization, SQL generation (cached), safety validation,
	// execution (SELECT results cached), and formatting. Any failure is
	// returned as an error; no partial responses.
	Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error)
}

// TTLConfig holds the per-call-site cache TTLs.
type TTLConfig struct {
	// LLM applies to cached generation results.
	LLM time.Duration
	// Result applies to cached formatted SELECT results.
	Result time.Duration
	// Schema enables the optional schema cache; zero keeps schema
	// extraction always-fresh.
	Schema time.Duration
}

// queryService implements QueryService.
type queryService struct {
	ds     datasource.Datasource
	gen    generator.Generator
	store  cache.Store
	ttl    TTLConfig
	logger *zap.Logger
}

// NewQueryService creates a query service with injected dependencies.
func NewQueryService(
	ds datasource.Datasource,
	gen generator.Generator,
	store cache.Store,
	ttl TTLConfig,
	logger *zap.Logger,
) QueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &queryService{
		ds:     ds,
		gen:    gen,
		store:  store,
		ttl:    ttl,
		logger: logger.Named("query"),
	}
}

// schemaCacheKey namespaces the optional schema cache entry.
const schemaCacheKey = "schema:datasource"

// Query implements QueryService.
func (s *queryService) Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	if req.Question == "" {
		return nil, apperrors.ErrEmptyQuestion
	}

	// A question that fingerprints as an injection payload never reaches
	// the completion endpoint.
	if check := sqlcheck.CheckQuestionForInjection(req.Question); check != nil {
		s.logger.Warn("question rejected by injection guard",
			zap.String("fingerprint", check.Fingerprint))
		return nil, fmt.Errorf("%w (fingerprint %s)", apperrors.ErrInjectionDetected, check.Fingerprint)
	}

	session, err := s.ds.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer session.Release()

	schema, err := s.extractSchema(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("schema extraction failed: %w", err)
	}

	optimized := question.Optimize(req.Question)
	s.logger.Debug("question optimized", zap.String("question", optimized))

	genResult, err := s.resolveSQL(ctx, optimized, schema)
	if err != nil {
		return nil, err
	}

	// Idempotent even when the generator already stripped fences.
	sqlQuery := generator.StripSQLFences(genResult.SQL)
	s.logger.Info("SQL resolved", zap.String("sql", sqlQuery))

	if !sqlcheck.Validate(sqlQuery, req.AllowModifications) {
		s.logger.Warn("generated SQL rejected", zap.String("sql", sqlQuery))
		return nil, apperrors.ErrUnsafeSQL
	}

	formatted, err := s.executeAndFormat(ctx, session, sqlQuery)
	if err != nil {
		return nil, err
	}

	return &models.QueryResponse{
		SQLQuery:   sqlQuery,
		Table:      formatted.Table,
		Results:    formatted.Records,
		TokenUsage: genResult.TokenUsage,
	}, nil
}

// extractSchema returns the schema description, consulting the optional
// schema cache when configured. The default keeps schema always-fresh.
func (s *queryService) extractSchema(ctx context.Context, session datasource.Session) (string, error) {
	if s.ttl.Schema <= 0 {
		return session.ExtractSchema(ctx)
	}

	key := cache.Key(schemaCacheKey)
	var schema string
	if cache.GetJSON(ctx, s.store, key, &schema) {
		return schema, nil
	}

	schema, err := session.ExtractSchema(ctx)
	if err != nil {
		return "", err
	}

	_ = cache.SetJSON(ctx, s.store, key, schema, s.ttl.Schema)
	return schema, nil
}

// resolveSQL returns the generation result for the optimized question and
// schema, serving repeats from the cache.
func (s *queryService) resolveSQL(ctx context.Context, optimized, schema string) (*models.GenerationResult, error) {
	key := cache.Key(optimized + "\n" + schema)

	var cached models.GenerationResult
	if cache.GetJSON(ctx, s.store, key, &cached) {
		s.logger.Debug("generation served from cache", zap.String("key", key))
		return &cached, nil
	}

	result, err := s.gen.GenerateSQL(ctx, optimized, schema, true)
	if err != nil {
		return nil, fmt.Errorf("SQL generation failed: %w", err)
	}

	_ = cache.SetJSON(ctx, s.store, key, result, s.ttl.LLM)
	return result, nil
}

// executeAndFormat runs the validated SQL and formats the raw rows. SELECT
// results are memoized by hash of the final SQL text; mutations are never
// cached or replayed.
func (s *queryService) executeAndFormat(ctx context.Context, session datasource.Session, sqlQuery string) (*models.FormattedResults, error) {
	isSelect := sqlcheck.IsSelect(sqlQuery)
	key := cache.Key(sqlQuery)

	if isSelect {
		var cached models.FormattedResults
		if cache.GetJSON(ctx, s.store, key, &cached) {
			s.logger.Debug("result served from cache", zap.String("key", key))
			return &cached, nil
		}
	}

	// Defense in depth: comments and narrative text are stripped again
	// right before execution.
	result, err := session.Execute(ctx, sqlcheck.Sanitize(sqlQuery))
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	s.logger.Info("query executed", zap.Int("rows", len(result.Rows)))

	formatted := formatter.Format(result.Rows, result.Columns)

	if isSelect {
		_ = cache.SetJSON(ctx, s.store, key, formatted, s.ttl.Result)
	}

	return formatted, nil
}
