package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sqlscribe.
// Configuration can come from a YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Target database the pipeline introspects and queries
	Datasource DatasourceConfig `yaml:"datasource"`

	// Redis cache backend (optional; in-memory cache is used when unset)
	Redis RedisConfig `yaml:"redis"`

	// Completion endpoint configuration
	LLM LLMConfig `yaml:"llm"`

	// Cache TTLs by call site
	Cache CacheConfig `yaml:"cache"`
}

// DatasourceConfig holds connection settings for the target database.
type DatasourceConfig struct {
	// Type selects the adapter: "postgres" (default) or "mssql".
	Type     string `yaml:"type" env:"DATASOURCE_TYPE" env-default:"postgres"`
	Host     string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"postgres"`
	Password string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"PGDATABASE" env-default:"postgres"`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// Pool sizing and lifetime. Checkout beyond AcquireTimeoutSeconds fails
	// with a timeout rather than blocking indefinitely.
	MaxConnections        int32 `yaml:"max_connections" env:"DATASOURCE_MAX_CONNECTIONS" env-default:"10"`
	MinConnections        int32 `yaml:"min_connections" env:"DATASOURCE_MIN_CONNECTIONS" env-default:"1"`
	MaxConnLifetimeMins   int   `yaml:"max_conn_lifetime_minutes" env:"DATASOURCE_MAX_CONN_LIFETIME_MINUTES" env-default:"30"`
	MaxConnIdleTimeMins   int   `yaml:"max_conn_idle_minutes" env:"DATASOURCE_MAX_CONN_IDLE_MINUTES" env-default:"5"`
	AcquireTimeoutSeconds int   `yaml:"acquire_timeout_seconds" env:"DATASOURCE_ACQUIRE_TIMEOUT_SECONDS" env-default:"10"`
}

// MaxConnLifetime returns the configured connection lifetime as a duration.
func (c *DatasourceConfig) MaxConnLifetime() time.Duration {
	return time.Duration(c.MaxConnLifetimeMins) * time.Minute
}

// MaxConnIdleTime returns the configured idle time as a duration.
func (c *DatasourceConfig) MaxConnIdleTime() time.Duration {
	return time.Duration(c.MaxConnIdleTimeMins) * time.Minute
}

// AcquireTimeout returns the configured checkout timeout as a duration.
func (c *DatasourceConfig) AcquireTimeout() time.Duration {
	return time.Duration(c.AcquireTimeoutSeconds) * time.Second
}

// RedisConfig holds Redis cache configuration.
// An empty Host disables Redis; the service falls back to in-memory caching.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// LLMConfig holds completion-endpoint configuration.
type LLMConfig struct {
	// Provider selects the client: "openai" (default, any OpenAI-compatible
	// endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint string `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o"`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	// MaxTokens bounds the completion length; TimeoutSeconds bounds the wait.
	MaxTokens      int `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"512"`
	TimeoutSeconds int `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"30"`
}

// Timeout returns the per-call completion timeout as a duration.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig holds per-call-site TTLs.
type CacheConfig struct {
	// LLMTTLSeconds applies to cached generation results.
	LLMTTLSeconds int `yaml:"llm_ttl_seconds" env:"CACHE_LLM_TTL_SECONDS" env-default:"600"`
	// ResultTTLSeconds applies to cached formatted SELECT results.
	ResultTTLSeconds int `yaml:"result_ttl_seconds" env:"CACHE_RESULT_TTL_SECONDS" env-default:"300"`
	// SchemaTTLSeconds enables an optional schema cache keyed by datasource
	// identity. Zero (the default) keeps the always-fresh behavior.
	SchemaTTLSeconds int `yaml:"schema_ttl_seconds" env:"CACHE_SCHEMA_TTL_SECONDS" env-default:"0"`
}

// LLMTTL returns the generation-result TTL as a duration.
func (c *CacheConfig) LLMTTL() time.Duration {
	return time.Duration(c.LLMTTLSeconds) * time.Second
}

// ResultTTL returns the SELECT-result TTL as a duration.
func (c *CacheConfig) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLSeconds) * time.Second
}

// SchemaTTL returns the schema-cache TTL as a duration.
func (c *CacheConfig) SchemaTTL() time.Duration {
	return time.Duration(c.SchemaTTLSeconds) * time.Second
}

// Load reads configuration from the given YAML file with environment
// variable overrides. The version parameter is injected at build time and
// set on the returned Config.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv reads configuration from environment variables only.
// Used when no config file is present.
func LoadFromEnv(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Datasource.Type {
	case "postgres", "mssql":
	default:
		return fmt.Errorf("unsupported datasource type %q", c.Datasource.Type)
	}

	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	if c.Cache.LLMTTLSeconds <= 0 || c.Cache.ResultTTLSeconds <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}
