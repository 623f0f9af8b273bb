// Package config loads the server configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/eshaffer321/monarch-mcp/internal/capture"
	"github.com/eshaffer321/monarch-mcp/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/monarch-mcp"
	configFileName = "config.yaml"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "MONARCH_MCP_CONFIG"
	EnvBaseURL    = "MONARCH_BASE_URL"
	EnvLogLevel   = "MONARCH_LOG_LEVEL"
	EnvSentryDSN  = "SENTRY_DSN"
)

// Config is the server configuration. Credentials are never read from the
// file; see provider.EnvCredentials.
type Config struct {
	BaseURL         string         `yaml:"base_url"`
	LogLevel        string         `yaml:"log_level"`
	LogFormat       string         `yaml:"log_format"`
	BulkConcurrency int            `yaml:"bulk_concurrency"`
	RetryMax        int            `yaml:"retry_max"`
	SentryDSN       string         `yaml:"sentry_dsn"`
	Capture         capture.Config `yaml:"capture"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:         types.DefaultBaseURL,
		LogLevel:        "info",
		LogFormat:       "text",
		BulkConcurrency: 5,
		Capture: capture.Config{
			LoginURL:     capture.DefaultLoginURL,
			Timeout:      capture.DefaultTimeout,
			PollInterval: capture.DefaultPollInterval,
			ConfirmDelay: capture.DefaultConfirmDelay,
		},
	}
}

// DefaultPath returns ~/.config/monarch-mcp/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, userConfigDir, configFileName), nil
}

// Load reads path, or $MONARCH_MCP_CONFIG, or the default path, over the
// defaults and then applies environment overrides. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("error reading config from %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvSentryDSN); v != "" {
		cfg.SentryDSN = v
	}
	if v := os.Getenv("MONARCH_CAPTURE_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Capture.Headless = b
		}
	}
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if c.BulkConcurrency < 0 {
		return fmt.Errorf("bulk_concurrency must not be negative, got %d", c.BulkConcurrency)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must not be negative, got %d", c.RetryMax)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// RetryConfig returns the transport retry settings, nil when disabled.
func (c Config) RetryConfig() *types.RetryConfig {
	if c.RetryMax <= 0 {
		return nil
	}
	return &types.RetryConfig{MaxRetries: c.RetryMax}
}
