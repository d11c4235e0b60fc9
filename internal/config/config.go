package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the primer.yaml configuration. Every field has a default so the
// tool works without a config file.
type Config struct {
	Book struct {
		File string `yaml:"file"`
	} `yaml:"book"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Snippets struct {
		Dir string `yaml:"dir"`
	} `yaml:"snippets"`
	Watch struct {
		DebounceMillis int `yaml:"debounce_millis"`
	} `yaml:"watch"`
}

// Load reads the config file at path, applying defaults when the file is
// absent and environment overrides afterwards.
func Load(path string) (*Config, error) {
	// Load .env if exists
	_ = godotenv.Load()

	cfg := defaults()

	if raw, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Override with environment variables if present
	if db := os.Getenv("PRIMER_DB"); db != "" {
		cfg.Store.Path = db
	}
	if dir := os.Getenv("PRIMER_SNIPPETS_DIR"); dir != "" {
		cfg.Snippets.Dir = dir
	}
	if book := os.Getenv("PRIMER_BOOK"); book != "" {
		cfg.Book.File = book
	}

	if cfg.Watch.DebounceMillis <= 0 {
		cfg.Watch.DebounceMillis = 300
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Book.File = "book.yaml"
	cfg.Store.Path = "primer.db"
	cfg.Watch.DebounceMillis = 300
	return cfg
}
