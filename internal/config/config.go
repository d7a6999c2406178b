package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the server. Values come from defaults,
// then an optional YAML file, then environment variables, in that order of
// increasing priority.
type Config struct {
	Port        string `yaml:"port"`
	ContentDir  string `yaml:"content_dir"`
	CatalogPath string `yaml:"catalog_path"`

	// MaxUploadSize caps the whole request body on upload endpoints. It sits
	// above the 100 MiB video ceiling so multipart overhead does not reject
	// a video that the validator would accept.
	MaxUploadSize int64 `yaml:"max_upload_size"`
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		ContentDir:    "./content",
		CatalogPath:   "./data/catalog.json",
		MaxUploadSize: 110 << 20,
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply; a non-empty path must exist.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("CONTENT_DIR"); v != "" {
		cfg.ContentDir = v
	}
	if v := os.Getenv("CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("MAX_UPLOAD_SIZE"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_SIZE: %w", err)
		}
		cfg.MaxUploadSize = size
	}
	return nil
}
