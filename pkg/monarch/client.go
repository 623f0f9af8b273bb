// Package monarch is a typed client for the Monarch Money GraphQL API.
package monarch

import (
	"context"
	"net/http"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/graphql"
	"github.com/eshaffer321/monarch-mcp/internal/transport"
	internalTypes "github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/juju/clock"
)

const (
	// DefaultBaseURL is the default Monarch Money API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout
)

// Logger is satisfied by *slog.Logger.
type Logger = internalTypes.Logger

// RetryConfig enables transport retries; the zero value disables them.
type RetryConfig = internalTypes.RetryConfig

// Transport carries GraphQL operations.
type Transport interface {
	Call(ctx context.Context, operation, query string, variables map[string]any, result any) error
	SetAuth(token string)
	SetSession(session *internalTypes.Session)
	Session() *internalTypes.Session
}

// Client is the Monarch Money API client.
type Client struct {
	Accounts     AccountService
	Transactions TransactionService
	Tags         TagService
	Budgets      BudgetService
	Cashflow     CashflowService
	Recurring    RecurringService
	NetWorth     NetWorthService
	Auth         AuthService

	baseURL     string
	httpClient  *http.Client
	transport   Transport
	options     *ClientOptions
	clock       clock.Clock
	queryLoader *graphql.QueryLoader
}

// ClientOptions configures the client.
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides direct authentication
	Token string

	Logger      Logger
	RetryConfig *RetryConfig
	Hooks       *internalTypes.Hooks

	// Transport replaces the HTTP transport entirely
	Transport Transport

	// Clock drives refresh polling
	Clock clock.Clock
}

// NewClient creates a client. Without a Token it can only be used after a
// successful Auth login.
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}

	trans := opts.Transport
	if trans == nil {
		trans = transport.NewGraphQLTransport(&transport.Options{
			BaseURL:     opts.BaseURL,
			HTTPClient:  opts.HTTPClient,
			RetryConfig: opts.RetryConfig,
			Logger:      opts.Logger,
			Hooks:       opts.Hooks,
		})
	}
	if opts.Token != "" {
		trans.SetAuth(opts.Token)
	}

	c := &Client{
		baseURL:     opts.BaseURL,
		httpClient:  opts.HTTPClient,
		transport:   trans,
		options:     opts,
		clock:       opts.Clock,
		queryLoader: graphql.NewQueryLoader(),
	}
	c.initServices()
	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{Token: token})
}

func (c *Client) initServices() {
	c.Accounts = &accountService{client: c}
	c.Transactions = newTransactionService(c)
	c.Tags = &tagService{client: c}
	c.Budgets = &budgetService{client: c}
	c.Cashflow = &cashflowService{client: c}
	c.Recurring = &recurringService{client: c}
	c.NetWorth = &netWorthService{client: c}
	c.Auth = newAuthService(c)
}

// Token returns the bearer token the client currently authenticates with.
// A nil client has no token.
func (c *Client) Token() string {
	if c == nil || c.transport == nil {
		return ""
	}
	if s := c.transport.Session(); s != nil {
		return s.Token
	}
	return ""
}

// SetToken replaces the authentication token
func (c *Client) SetToken(token string) {
	c.transport.SetAuth(token)
}

// Call runs an arbitrary GraphQL document. It is the escape hatch for
// operations no service wraps.
func (c *Client) Call(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	if operation == "" {
		operation = graphql.OperationName(query)
	}
	return c.execute(ctx, operation, query, variables, result)
}

func (c *Client) loadQuery(queryPath string) string {
	return c.queryLoader.MustLoad(queryPath)
}

func (c *Client) executeGraphQL(ctx context.Context, query string, variables map[string]any, result any) error {
	return c.execute(ctx, graphql.OperationName(query), query, variables, result)
}

func (c *Client) execute(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	start := time.Now()
	err := c.transport.Call(ctx, operation, query, variables, result)
	if err == nil {
		return nil
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("graphql.operation", operation)
		scope.SetContext("graphql", map[string]any{
			"operation": operation,
			"duration":  time.Since(start).String(),
		})
		hub.CaptureException(err)
	})

	if c.options.Logger != nil {
		c.options.Logger.Debug("graphql call failed", "operation", operation, "error", err)
	}
	return err
}

// Close flushes pending Sentry events.
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
