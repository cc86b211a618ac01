package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Retry.MaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay != time.Second {
		t.Errorf("expected 1s base delay, got %v", cfg.Retry.BaseDelay)
	}
	if cfg.Retry.MaxDelay != 60*time.Second {
		t.Errorf("expected 60s max delay, got %v", cfg.Retry.MaxDelay)
	}
	if cfg.Retry.ExponentialBase != 2.0 {
		t.Errorf("expected base 2.0, got %v", cfg.Retry.ExponentialBase)
	}
	if !cfg.Retry.Jitter {
		t.Error("jitter should default on")
	}
	if cfg.Defaults.Executor != "rules" {
		t.Errorf("expected rules executor default, got %s", cfg.Defaults.Executor)
	}
	if cfg.Defaults.Output != "text" {
		t.Errorf("expected text output default, got %s", cfg.Defaults.Output)
	}
	if !cfg.History.Enabled {
		t.Error("history should default on")
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
anthropic:
  model: claude-sonnet-4-20250514
retry:
  max_retries: 5
  base_delay: 2s
defaults:
  executor: agent
  output: json
history:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("model not read: %s", cfg.Anthropic.Model)
	}
	if cfg.Retry.MaxRetries != 5 || cfg.Retry.BaseDelay != 2*time.Second {
		t.Errorf("retry overrides not applied: %+v", cfg.Retry)
	}
	if cfg.Defaults.Executor != "agent" || cfg.Defaults.Output != "json" {
		t.Errorf("defaults overrides not applied: %+v", cfg.Defaults)
	}
	if cfg.History.Enabled {
		t.Error("history.enabled override not applied")
	}
	// Unset values keep their defaults.
	if cfg.Retry.MaxDelay != 60*time.Second {
		t.Errorf("unset max_delay should keep default, got %v", cfg.Retry.MaxDelay)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAPIKeyEnvExpansion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "anthropic:\n  api_key: ${DIAGFLOW_TEST_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DIAGFLOW_TEST_KEY", "sk-test-123")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-test-123" {
		t.Errorf("expected expanded key, got %q", cfg.Anthropic.APIKey)
	}
}

func TestExpandEnvUnknownVarUntouched(t *testing.T) {
	got := expandEnv("${DIAGFLOW_DOES_NOT_EXIST_XYZ}")
	if got != "${DIAGFLOW_DOES_NOT_EXIST_XYZ}" {
		t.Errorf("unknown reference should pass through, got %q", got)
	}
}

func TestAnthropicAPIKeyFromEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "sk-env-456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-env-456" {
		t.Errorf("expected env key, got %q", cfg.Anthropic.APIKey)
	}
}
