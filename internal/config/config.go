// Package config loads planner configuration from a YAML file with
// environment overrides. A missing file yields defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Michi configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates local storage.
type DataConfig struct {
	Dir          string `yaml:"dir"`
	DatabaseFile string `yaml:"database_file"`
}

// LLMConfig configures the Gemini generator.
type LLMConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	ThinkingBudget int32  `yaml:"thinking_budget"`
	Timeout        string `yaml:"timeout"`
}

// LoggingConfig configures zap output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dataDir := ".michi"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".michi")
	}
	return &Config{
		Data: DataConfig{
			Dir:          dataDir,
			DatabaseFile: "michi.db",
		},
		LLM: LLMConfig{
			Model:          "gemini-3-pro-preview",
			ThinkingBudget: 32768,
			Timeout:        "2m",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "michi.log",
		},
	}
}

// Load loads configuration from a YAML file. A nonexistent path returns
// defaults. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("MICHI_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if budget := os.Getenv("MICHI_THINKING_BUDGET"); budget != "" {
		if n, err := strconv.ParseInt(budget, 10, 32); err == nil && n > 0 {
			c.LLM.ThinkingBudget = int32(n)
		}
	}
	if dir := os.Getenv("MICHI_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if path := os.Getenv("MICHI_DB"); path != "" {
		c.Data.Dir = filepath.Dir(path)
		c.Data.DatabaseFile = filepath.Base(path)
	}
}

// DatabasePath returns the absolute snapshot database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, c.Data.DatabaseFile)
}

// LLMTimeout returns the per-request generation timeout.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
