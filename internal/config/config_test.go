package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LLM.Model != "gemini-3-pro-preview" {
		t.Fatalf("default model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.ThinkingBudget != 32768 {
		t.Fatalf("default thinking budget = %d", cfg.LLM.ThinkingBudget)
	}
	if cfg.Data.DatabaseFile != "michi.db" {
		t.Fatalf("default db file = %q", cfg.Data.DatabaseFile)
	}
	if cfg.LLMTimeout() != 2*time.Minute {
		t.Fatalf("default timeout = %v", cfg.LLMTimeout())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != DefaultConfig().LLM.Model {
		t.Fatalf("missing file should yield defaults, got model %q", cfg.LLM.Model)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
data:
  dir: /tmp/michi-test
  database_file: other.db
llm:
  model: gemini-2.5-flash
  timeout: 30s
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Fatalf("model = %q", cfg.LLM.Model)
	}
	if cfg.LLMTimeout() != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.LLMTimeout())
	}
	if got := cfg.DatabasePath(); got != filepath.Join("/tmp/michi-test", "other.db") {
		t.Fatalf("db path = %q", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "sk-test")
	t.Setenv("MICHI_MODEL", "gemini-3-flash-preview")
	t.Setenv("MICHI_DB", "/data/planner/cat.db")
	t.Setenv("MICHI_THINKING_BUDGET", "1024")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Fatalf("api key = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gemini-3-flash-preview" {
		t.Fatalf("model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.ThinkingBudget != 1024 {
		t.Fatalf("thinking budget = %d", cfg.LLM.ThinkingBudget)
	}
	if got := cfg.DatabasePath(); got != filepath.Join("/data/planner", "cat.db") {
		t.Fatalf("db path = %q", got)
	}
}

func TestBadTimeoutFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "soon"
	if cfg.LLMTimeout() != 2*time.Minute {
		t.Fatalf("bad timeout should fall back, got %v", cfg.LLMTimeout())
	}
}
