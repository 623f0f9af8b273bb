package session

import (
	"context"
	"log/slog"

	"github.com/eshaffer321/monarch-mcp/internal/logging"
	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ClientFactory builds an API client around a token.
type ClientFactory func(token string) (*monarch.Client, error)

// TokenSource is anything holding a token after login, such as *monarch.Client.
type TokenSource interface {
	Token() string
}

// Options configures a Store. Zero values select the OS keyring, a discard
// logger, the real home directory and monarch.NewClientWithToken.
type Options struct {
	Secrets   SecretStore
	Logger    *slog.Logger
	HomeDir   string
	NewClient ClientFactory
}

// Store owns the persisted token.
type Store struct {
	secrets   SecretStore
	logger    *slog.Logger
	homeDir   string
	newClient ClientFactory
	lookups   metric.Int64Counter
}

// New creates a Store.
func New(opts Options) *Store {
	if opts.Secrets == nil {
		opts.Secrets = KeyringStore{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.NewClient == nil {
		opts.NewClient = monarch.NewClientWithToken
	}

	// The global meter is a no-op until a provider is installed.
	lookups, _ := otel.Meter("github.com/eshaffer321/monarch-mcp/internal/session").Int64Counter(
		"monarch_mcp.session.lookups",
		metric.WithDescription("Stored token lookups by outcome"),
	)

	return &Store{
		secrets:   opts.Secrets,
		logger:    opts.Logger,
		homeDir:   opts.HomeDir,
		newClient: opts.NewClient,
		lookups:   lookups,
	}
}

// SaveToken stores token, replacing any previous one, then removes legacy
// session files.
func (s *Store) SaveToken(token string) error {
	if err := s.secrets.Set(KeyringService, KeyringAccount, token); err != nil {
		return errors.Wrap(err, "failed to save token to keyring")
	}
	s.logger.Info("token saved to keyring")
	s.cleanupLegacy()
	return nil
}

// Lookup reads the stored token.
func (s *Store) Lookup() Lookup {
	token, err := s.secrets.Get(KeyringService, KeyringAccount)

	var l Lookup
	switch {
	case errors.Is(err, ErrNotFound), err == nil && token == "":
		l = Lookup{Status: NotFound}
	case err != nil:
		l = Lookup{Status: StoreUnavailable, Err: err}
	default:
		l = Lookup{Status: Found, Token: token}
	}

	if s.lookups != nil {
		s.lookups.Add(context.Background(), 1, metric.WithAttributes(attribute.String("status", l.Status.String())))
	}
	return l
}

// LoadToken returns the stored token. A store failure is logged and
// reported as no token.
func (s *Store) LoadToken() (string, bool) {
	l := s.Lookup()
	switch l.Status {
	case Found:
		return l.Token, true
	case StoreUnavailable:
		s.logger.Warn("failed to read token from keyring", "error", l.Err)
	default:
		s.logger.Debug("no token in keyring")
	}
	return "", false
}

// DeleteToken removes the stored token. Deleting a missing token succeeds;
// other failures are logged.
func (s *Store) DeleteToken() {
	err := s.secrets.Delete(KeyringService, KeyringAccount)
	switch {
	case err == nil:
		s.logger.Info("token deleted from keyring")
	case errors.Is(err, ErrNotFound):
		s.logger.Debug("no token to delete")
	default:
		s.logger.Warn("failed to delete token from keyring", "error", err)
	}
	s.cleanupLegacy()
}

// GetAuthenticatedClient builds a client from the stored token. Any failure
// is logged and reported as no client.
func (s *Store) GetAuthenticatedClient() (*monarch.Client, bool) {
	token, ok := s.LoadToken()
	if !ok {
		return nil, false
	}
	client, err := s.newClient(token)
	if err != nil || client == nil {
		s.logger.Warn("failed to build client from stored token", "error", err)
		return nil, false
	}
	return client, true
}

// SaveAuthenticatedSession stores the token held by src. A source without
// a token is logged and skipped.
func (s *Store) SaveAuthenticatedSession(src TokenSource) error {
	if src == nil || src.Token() == "" {
		s.logger.Warn("no token on authenticated session, nothing saved")
		return nil
	}
	return s.SaveToken(src.Token())
}
