package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/licenseprep/curricula/pkg/utils"
)

type Config struct {
	LogMode string `yaml:"log_mode"`

	Database struct {
		Driver string `yaml:"driver"` // sqlite or postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Embedding struct {
		URL    string `yaml:"url"`
		APIKey string `yaml:"api_key"`
		Model  string `yaml:"model"`
	} `yaml:"embedding"`

	GenAI struct {
		URL            string `yaml:"url"`
		APIKey         string `yaml:"api_key"`
		Model          string `yaml:"model"`
		FallbackModel  string `yaml:"fallback_model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"genai"`

	Import struct {
		ChunkTargetTokens int `yaml:"chunk_target_tokens"`
	} `yaml:"import"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config usable without a config file: local sqlite
// store, no external services.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LogMode == "" {
		cfg.LogMode = "dev"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = filepath.Join(utils.DefaultDataDir(), "curricula.db")
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "text-embedding-3-small"
	}
	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = "gpt-4o"
	}
	if cfg.GenAI.FallbackModel == "" {
		cfg.GenAI.FallbackModel = "gpt-4o-mini"
	}
	if cfg.GenAI.TimeoutSeconds == 0 {
		cfg.GenAI.TimeoutSeconds = 60
	}
	if cfg.Import.ChunkTargetTokens == 0 {
		cfg.Import.ChunkTargetTokens = 600
	}
}
