package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/sqlscribe/sqlscribe/pkg/cache"
	"github.com/sqlscribe/sqlscribe/pkg/config"
	"github.com/sqlscribe/sqlscribe/pkg/database"
	"github.com/sqlscribe/sqlscribe/pkg/datasource"
	"github.com/sqlscribe/sqlscribe/pkg/datasource/mssql"
	"github.com/sqlscribe/sqlscribe/pkg/datasource/postgres"
	"github.com/sqlscribe/sqlscribe/pkg/generator"
	"github.com/sqlscribe/sqlscribe/pkg/handlers"
	"github.com/sqlscribe/sqlscribe/pkg/llm"
	"github.com/sqlscribe/sqlscribe/pkg/middleware"
	"github.com/sqlscribe/sqlscribe/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("datasource_type", cfg.Datasource.Type),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	ctx := context.Background()

	ds, err := newDatasource(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect datasource", zap.Error(err))
	}
	defer ds.Close()

	store, err := newCacheStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect cache", zap.Error(err))
	}

	llmClient, err := llm.NewClient(&cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to create llm client", zap.Error(err))
	}

	gen := generator.New(llmClient, cfg.LLM.Timeout(), logger)

	queryService := services.NewQueryService(ds, gen, store, services.TTLConfig{
		LLM:    cfg.Cache.LLMTTL(),
		Result: cfg.Cache.ResultTTL(),
		Schema: cfg.Cache.SchemaTTL(),
	}, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(queryService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting sqlscribe", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// loadConfig reads config.yaml when present, environment-only otherwise.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml", Version)
	}
	return config.LoadFromEnv(Version)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newDatasource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (datasource.Datasource, error) {
	switch cfg.Datasource.Type {
	case "mssql":
		return mssql.NewAdapter(ctx, &cfg.Datasource, logger)
	default:
		pool, err := database.NewPostgresPool(ctx, &cfg.Datasource)
		if err != nil {
			return nil, err
		}
		return postgres.NewAdapter(pool, cfg.Datasource.AcquireTimeout(), logger), nil
	}
}

// newCacheStore builds the Redis-backed store when Redis is configured and
// falls back to the in-memory store otherwise.
func newCacheStore(cfg *config.Config, logger *zap.Logger) (cache.Store, error) {
	client, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Info("redis not configured, using in-memory cache")
		return cache.NewMemoryStore(), nil
	}
	return cache.NewRedisStore(client, logger), nil
}
