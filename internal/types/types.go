// Package types holds the values shared between the public client and its
// internal transport and login layers.
package types

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Monarch Money API root.
	DefaultBaseURL = "https://api.monarch.com"

	// DefaultOrigin is sent as the Origin header, matching the web app.
	DefaultOrigin = "https://app.monarch.com"

	// DefaultTimeout bounds a single HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// UserAgent identifies this client to the API.
	UserAgent = "monarch-mcp/1.0"
)

// Session is the credential state a transport authenticates with.
type Session struct {
	Token      string `json:"token"`
	Email      string `json:"email,omitempty"`
	DeviceUUID string `json:"deviceUuid,omitempty"`
}

// Logger is satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// RetryConfig enables transport level retries. A nil config or zero
// MaxRetries means every request is attempted exactly once.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	RetryWait  time.Duration `yaml:"retry_wait"`
	MaxWait    time.Duration `yaml:"max_wait"`
}

// Hooks observe requests as they pass through the transport.
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}
