package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvBaseURL, EnvLogLevel, EnvSentryDSN, "MONARCH_CAPTURE_HEADLESS"} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://api.monarch.com", cfg.BaseURL)
	assert.Equal(t, "https://app.monarch.com/login", cfg.Capture.LoginURL)
	assert.Equal(t, 300*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, time.Second, cfg.Capture.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.Capture.ConfirmDelay)
	assert.False(t, cfg.Capture.Headless)
	assert.Equal(t, 5, cfg.BulkConcurrency)
	assert.Nil(t, cfg.RetryConfig())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://staging.example.com
log_level: debug
log_format: json
bulk_concurrency: 2
retry_max: 3
capture:
  headless: true
  timeout: 90s
  confirm_delay: 0s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2, cfg.BulkConcurrency)
	assert.True(t, cfg.Capture.Headless)
	assert.Equal(t, 90*time.Second, cfg.Capture.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Capture.ConfirmDelay)
	assert.Equal(t, time.Second, cfg.Capture.PollInterval, "unset keys keep defaults")
	assert.Equal(t, &types.RetryConfig{MaxRetries: 3}, cfg.RetryConfig())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://file.example.com\n"), 0o600))

	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvBaseURL, "https://env.example.com")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvSentryDSN, "https://key@sentry.example.com/1")
	t.Setenv("MONARCH_CAPTURE_HEADLESS", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.BaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "https://key@sentry.example.com/1", cfg.SentryDSN)
	assert.True(t, cfg.Capture.Headless)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed", "base_url: [", "error loading config"},
		{"negative bulk", "bulk_concurrency: -1", "bulk_concurrency"},
		{"negative retries", "retry_max: -2", "retry_max"},
		{"bad format", "log_format: xml", "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
