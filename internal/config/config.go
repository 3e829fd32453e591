// Package config loads the service configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the runtime configuration. Bucket and table names are
// optional: a missing name degrades the corresponding persistence write
// to a logged no-op rather than an error.
type Config struct {
	RequestBucket    string `koanf:"request_bucket"`
	ResponseBucket   string `koanf:"response_bucket"`
	UserDataTable    string `koanf:"user_data_table"`
	TranslationTable string `koanf:"translation_table"`
	Region           string `koanf:"aws_region"`
	Environment      string `koanf:"environment"`
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Environment == "" {
		cfg.Environment = "dev"
	}

	return cfg, nil
}

// HasObjectStorage reports whether both S3 bucket names are configured.
func (c Config) HasObjectStorage() bool {
	return c.RequestBucket != "" && c.ResponseBucket != ""
}

// HasMetadataStorage reports whether the translation metadata table is configured.
func (c Config) HasMetadataStorage() bool {
	return c.TranslationTable != ""
}
