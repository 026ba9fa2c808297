package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// writeConfigFile marshals the given document to a config.yaml in a temp
// directory and returns its path.
func writeConfigFile(t *testing.T, doc map[string]any) string {
	t.Helper()

	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal test config: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BIND_ADDR", "PORT", "ENVIRONMENT",
		"DATASOURCE_TYPE", "PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE",
		"REDIS_HOST", "LLM_PROVIDER", "LLM_ENDPOINT", "LLM_MODEL", "LLM_API_KEY",
		"CACHE_LLM_TTL_SECONDS", "CACHE_RESULT_TTL_SECONDS", "CACHE_SCHEMA_TTL_SECONDS",
	} {
		// t.Setenv registers cleanup; setting then unsetting restores the
		// original value after the test.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_FromYAML(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfigFile(t, map[string]any{
		"port": "3000",
		"env":  "staging",
		"datasource": map[string]any{
			"type":     "postgres",
			"host":     "db.internal",
			"port":     5433,
			"user":     "scribe",
			"database": "sales",
		},
		"llm": map[string]any{
			"provider": "openai",
			"model":    "gpt-4o-mini",
		},
		"cache": map[string]any{
			"llm_ttl_seconds":    120,
			"result_ttl_seconds": 60,
		},
	})

	cfg, err := Load(path, "test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("expected Port=3000, got %s", cfg.Port)
	}
	if cfg.Env != "staging" {
		t.Errorf("expected Env=staging, got %s", cfg.Env)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
	if cfg.Datasource.Host != "db.internal" {
		t.Errorf("expected datasource host db.internal, got %s", cfg.Datasource.Host)
	}
	if cfg.Datasource.Port != 5433 {
		t.Errorf("expected datasource port 5433, got %d", cfg.Datasource.Port)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", cfg.LLM.Model)
	}
	if cfg.Cache.LLMTTL() != 2*time.Minute {
		t.Errorf("expected llm ttl 2m, got %s", cfg.Cache.LLMTTL())
	}
	if cfg.Cache.SchemaTTL() != 0 {
		t.Errorf("schema cache should default to disabled, got %s", cfg.Cache.SchemaTTL())
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfigFile(t, map[string]any{
		"port": "3000",
		"datasource": map[string]any{
			"host": "db.internal",
		},
	})

	t.Setenv("PORT", "4000")
	t.Setenv("PGHOST", "other-db.internal")

	cfg, err := Load(path, "test-version")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "4000" {
		t.Errorf("expected Port=4000 (from env), got %s", cfg.Port)
	}
	if cfg.Datasource.Host != "other-db.internal" {
		t.Errorf("expected datasource host from env, got %s", cfg.Datasource.Host)
	}
}

func TestLoad_SecretsComeFromEnvOnly(t *testing.T) {
	clearConfigEnv(t)

	// Passwords and API keys in YAML are ignored; only env applies.
	path := writeConfigFile(t, map[string]any{
		"datasource": map[string]any{
			"password": "yaml-secret",
		},
		"llm": map[string]any{
			"api_key": "yaml-secret",
		},
	})

	t.Setenv("PGPASSWORD", "env-secret")
	t.Setenv("LLM_API_KEY", "env-key")

	cfg, err := Load(path, "v")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Datasource.Password != "env-secret" {
		t.Errorf("expected password from env, got %q", cfg.Datasource.Password)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("expected api key from env, got %q", cfg.LLM.APIKey)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadFromEnv("v")
	if err != nil {
		t.Fatalf("LoadFromEnv() failed: %v", err)
	}

	if cfg.BindAddr != "127.0.0.1" {
		t.Errorf("expected default bind addr, got %s", cfg.BindAddr)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Datasource.Type != "postgres" {
		t.Errorf("expected default datasource type postgres, got %s", cfg.Datasource.Type)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected default provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.Cache.LLMTTLSeconds != 600 {
		t.Errorf("expected default llm ttl 600s, got %d", cfg.Cache.LLMTTLSeconds)
	}
	if cfg.Cache.ResultTTLSeconds != 300 {
		t.Errorf("expected default result ttl 300s, got %d", cfg.Cache.ResultTTLSeconds)
	}
	if cfg.Datasource.AcquireTimeout() != 10*time.Second {
		t.Errorf("expected default acquire timeout 10s, got %s", cfg.Datasource.AcquireTimeout())
	}
}

func TestLoad_RejectsUnknownDatasourceType(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATASOURCE_TYPE", "oracle")

	if _, err := LoadFromEnv("v"); err == nil {
		t.Fatal("expected an error for an unsupported datasource type")
	}
}

func TestLoad_RejectsUnknownProvider(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LLM_PROVIDER", "cohere")

	if _, err := LoadFromEnv("v"); err == nil {
		t.Fatal("expected an error for an unsupported llm provider")
	}
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CACHE_LLM_TTL_SECONDS", "0")

	if _, err := LoadFromEnv("v"); err == nil {
		t.Fatal("expected an error for a zero llm ttl")
	}
}
