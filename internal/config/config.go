package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type ReconcilePrompts struct {
	Decompose string `toml:"decompose"`
}

type LLMConfig struct {
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Temperature    float32 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ImportConfig struct {
	PreviewRows int `toml:"preview_rows"`
}

type Config struct {
	LLM       LLMConfig        `toml:"llm"`
	Database  DatabaseConfig   `toml:"database"`
	Import    ImportConfig     `toml:"import"`
	Reconcile ReconcilePrompts `toml:"reconcile"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero values so a partial config file (or no file at all)
// still yields a usable configuration.
func (c *Config) ApplyDefaults() {
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 60
	}
	if c.Database.Path == "" {
		c.Database.Path = "estima.db"
	}
	if c.Import.PreviewRows == 0 {
		c.Import.PreviewRows = 10
	}
}
