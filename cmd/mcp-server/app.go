package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/capture"
	"github.com/eshaffer321/monarch-mcp/internal/config"
	"github.com/eshaffer321/monarch-mcp/internal/logging"
	"github.com/eshaffer321/monarch-mcp/internal/provider"
	"github.com/eshaffer321/monarch-mcp/internal/session"
	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

const sentryFlushTimeout = 2 * time.Second

// app holds the components every command shares.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *session.Store
	provider *provider.Provider
	sentry   bool
}

func loadApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	a := &app{cfg: cfg, logger: logger}
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.SentryDSN,
			Release: "monarch-mcp@" + version,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize sentry")
		}
		a.sentry = true
	}

	clientOpts := a.clientOptions()
	a.store = session.New(session.Options{
		Logger: logger,
		NewClient: func(token string) (*monarch.Client, error) {
			o := clientOpts
			o.Token = token
			return monarch.NewClient(&o)
		},
	})
	a.provider = provider.New(provider.Options{
		Store:  a.store,
		Login:  provider.PasswordLogin(clientOpts),
		Logger: logger,
	})
	return a, nil
}

// clientOptions returns the options for a new API client. Each call returns
// a fresh copy since monarch.NewClient fills in defaults.
func (a *app) clientOptions() monarch.ClientOptions {
	return monarch.ClientOptions{
		BaseURL:     a.cfg.BaseURL,
		Logger:      a.logger,
		RetryConfig: a.cfg.RetryConfig(),
	}
}

// captureFlow builds a browser login that saves into the keyring and drops
// the cached client. progress may be nil.
func (a *app) captureFlow(progress func(capture.State, time.Duration)) *capture.Flow {
	return capture.NewFlow(capture.Options{
		Store:      a.store,
		Config:     a.cfg.Capture,
		Logger:     a.logger,
		Invalidate: a.provider.ClearCache,
		Progress:   progress,
	})
}

// Close flushes buffered error reports.
func (a *app) Close() {
	if a.sentry {
		sentry.Flush(sentryFlushTimeout)
	}
}
