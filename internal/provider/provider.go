// Package provider resolves the authenticated Monarch client used by every
// tool: cache, then stored token, then environment login.
package provider

import (
	"context"
	"log/slog"
	"os"

	"github.com/eshaffer321/monarch-mcp/internal/logging"
	"github.com/eshaffer321/monarch-mcp/internal/session"
	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/pkg/errors"
)

// Environment variables holding fallback credentials.
const (
	EnvEmail     = "MONARCH_EMAIL"
	EnvPassword  = "MONARCH_PASSWORD"
	EnvMFASecret = "MONARCH_MFA_SECRET"
)

// Credentials are the environment fallback login.
type Credentials struct {
	Email     string
	Password  string
	MFASecret string
}

// Complete reports whether both email and password are set.
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// EnvCredentials reads credentials from the process environment.
func EnvCredentials() Credentials {
	return Credentials{
		Email:     os.Getenv(EnvEmail),
		Password:  os.Getenv(EnvPassword),
		MFASecret: os.Getenv(EnvMFASecret),
	}
}

// Store is the subset of session.Store the provider needs.
type Store interface {
	GetAuthenticatedClient() (*monarch.Client, bool)
	SaveAuthenticatedSession(src session.TokenSource) error
}

// LoginFunc performs a password login and returns the authenticated client.
type LoginFunc func(ctx context.Context, creds Credentials) (*monarch.Client, error)

// PasswordLogin logs in with a fresh client built from opts, deriving the
// MFA code from the TOTP secret when one is set.
func PasswordLogin(opts monarch.ClientOptions) LoginFunc {
	return func(ctx context.Context, creds Credentials) (*monarch.Client, error) {
		o := opts
		client, err := monarch.NewClient(&o)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create client")
		}
		if creds.MFASecret != "" {
			err = client.Auth.LoginWithTOTP(ctx, creds.Email, creds.Password, creds.MFASecret)
		} else {
			err = client.Auth.Login(ctx, creds.Email, creds.Password)
		}
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Options configures a Provider.
type Options struct {
	Cache  *SessionCache
	Store  Store
	Login  LoginFunc
	Logger *slog.Logger

	// Env supplies fallback credentials; defaults to EnvCredentials
	Env func() Credentials
}

// Provider hands out the authenticated client.
type Provider struct {
	cache  *SessionCache
	store  Store
	login  LoginFunc
	env    func() Credentials
	logger *slog.Logger
}

// New creates a Provider.
func New(opts Options) *Provider {
	if opts.Cache == nil {
		opts.Cache = NewSessionCache()
	}
	if opts.Env == nil {
		opts.Env = EnvCredentials
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Login == nil {
		opts.Login = PasswordLogin(monarch.ClientOptions{Logger: opts.Logger})
	}
	return &Provider{
		cache:  opts.Cache,
		store:  opts.Store,
		login:  opts.Login,
		env:    opts.Env,
		logger: opts.Logger,
	}
}

// Client returns the cached client or resolves a new one. A failed
// environment login is returned as-is; no credentials at all yields
// *AuthRequiredError.
func (p *Provider) Client(ctx context.Context) (*monarch.Client, error) {
	return p.cache.GetOrCreate(ctx, p.resolve)
}

func (p *Provider) resolve(ctx context.Context) (*monarch.Client, error) {
	if p.store != nil {
		if client, ok := p.store.GetAuthenticatedClient(); ok {
			p.logger.Debug("using stored token")
			return client, nil
		}
	}

	creds := p.env()
	if !creds.Complete() {
		return nil, &AuthRequiredError{}
	}

	p.logger.Info("logging in with environment credentials", "email", creds.Email)
	client, err := p.login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if p.store != nil {
		if err := p.store.SaveAuthenticatedSession(client); err != nil {
			p.logger.Warn("failed to persist session", "error", err)
		}
	}
	return client, nil
}

// ClearCache forgets the cached client so the next call re-reads the store.
func (p *Provider) ClearCache() {
	p.cache.Invalidate()
}

// Cache exposes the session cache for components that must invalidate it.
func (p *Provider) Cache() *SessionCache {
	return p.cache
}
