package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/capture"
	"github.com/eshaffer321/monarch-mcp/internal/provider"
	"github.com/eshaffer321/monarch-mcp/internal/session"
	internalTypes "github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/juju/clock/testclock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

type recordedCall struct {
	Operation string
	Variables map[string]any
}

// fakeTransport answers GraphQL operations by name.
type fakeTransport struct {
	mu sync.Mutex
	handlers map[string]func(vars map[string]any) (string, error)
	calls []recordedCall
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]func(map[string]any) (string, error))}
}

func (f *fakeTransport) respond(operation, response string) {
	f.on(operation, func(map[string]any) (string, error) { return response, nil })
}

func (f *fakeTransport) fail(operation string, err error) {
	f.on(operation, func(map[string]any) (string, error) { return "", err })
}

func (f *fakeTransport) on(operation string, fn func(vars map[string]any) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[operation] = fn
}

func (f *fakeTransport) Call(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	// Round trip so assertions see what would go on the wire.
	raw, err := json.Marshal(variables)
	if err != nil {
		return err
	}
	var vars map[string]any
	if err := json.Unmarshal(raw, &vars); err != nil {
		return err
	}

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Operation: operation, Variables: vars})
	fn, ok := f.handlers[operation]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("unexpected operation %s", operation)
	}

	resp, err := fn(vars)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(resp), result)
}

func (f *fakeTransport) SetAuth(string)                        {}
func (f *fakeTransport) SetSession(*internalTypes.Session)     {}
func (f *fakeTransport) Session() *internalTypes.Session       { return nil }

// lastVars returns the variables of the most recent call to operation.
func (f *fakeTransport) lastVars(t *testing.T, operation string) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Operation == operation {
			return f.calls[i].Variables
		}
	}
	t.Fatalf("operation %s was never called", operation)
	return nil
}

func (f *fakeTransport) count(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Operation == operation {
			n++
		}
	}
	return n
}

type fakeProvider struct {
	client  *monarch.Client
	err     error
	panics  bool
	cleared int
}

func (p *fakeProvider) Client(context.Context) (*monarch.Client, error) {
	if p.panics {
		panic("boom")
	}
	return p.client, p.err
}

func (p *fakeProvider) ClearCache() { p.cleared++ }

type fakeStore struct {
	lookup  session.Lookup
	deleted int
}

func (s *fakeStore) Lookup() session.Lookup { return s.lookup }
func (s *fakeStore) DeleteToken()           { s.deleted++ }

type fakeCapture struct {
	result capture.Result
	runs   int
}

func (c *fakeCapture) Run(context.Context) capture.Result {
	c.runs++
	return c.result
}

type harness struct {
	tools     *Toolset
	transport *fakeTransport
	provider  *fakeProvider
	store     *fakeStore
	capture   *fakeCapture
	env       map[string]string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ft := newFakeTransport()
	client, err := monarch.NewClient(&monarch.ClientOptions{Transport: ft})
	require.NoError(t, err)

	h := &harness{
		transport: ft,
		provider:  &fakeProvider{client: client},
		store:     &fakeStore{lookup: session.Lookup{Status: session.NotFound}},
		capture:   &fakeCapture{},
		env:       map[string]string{},
	}
	h.tools = New(Deps{
		Provider: h.provider,
		Store:    h.store,
		Capture:  h.capture,
		Clock:    testclock.NewClock(testNow),
		Env:      func(k string) string { return h.env[k] },
	})
	return h
}

// call runs a tool and returns its raw text.
func (h *harness) call(t *testing.T, name string, args any) string {
	t.Helper()
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		require.NoError(t, err)
		raw = b
	}
	return h.tools.Call(context.Background(), name, raw)
}

// decode runs a tool and decodes its JSON answer into out.
func (h *harness) decode(t *testing.T, name string, args any, out any) {
	t.Helper()
	body := h.call(t, name, args)
	require.NoError(t, json.Unmarshal([]byte(body), out), body)
}

func (h *harness) object(t *testing.T, name string, args any) map[string]any {
	t.Helper()
	var out map[string]any
	h.decode(t, name, args, &out)
	return out
}

func (h *harness) list(t *testing.T, name string, args any) []map[string]any {
	t.Helper()
	var out []map[string]any
	h.decode(t, name, args, &out)
	return out
}

func assertToolError(t *testing.T, out map[string]any, tool, contains string) {
	t.Helper()
	assert.Equal(t, true, out["error"])
	assert.Equal(t, tool, out["tool"])
	assert.Contains(t, out["message"], contains)
}

func TestRegisterDoesNotPanic(t *testing.T) {
	h := newHarness(t)
	server := mcp.NewServer(&mcp.Implementation{Name: "monarch-money", Version: "test"}, nil)

	assert.NotPanics(t, func() { h.tools.Register(server) })
}

func TestToolNames(t *testing.T) {
	h := newHarness(t)
	names := h.tools.Names()

	assert.Len(t, names, 39)
	for _, want := range []string{
		"setup_authentication", "authenticate_with_google", "check_auth_status",
		"debug_session_loading", "get_accounts", "refresh_accounts",
		"get_account_holdings", "get_account_balance_history", "get_transactions",
		"search_transactions", "get_transaction_details", "create_transaction",
		"update_transaction", "set_transaction_category", "update_transaction_notes",
		"mark_transaction_reviewed", "bulk_categorize_transactions", "delete_transaction",
		"get_recurring_transactions", "get_transactions_needing_review",
		"get_transactions_summary", "get_spending_summary", "get_transaction_splits",
		"split_transaction", "get_tags", "set_transaction_tags", "create_tag",
		"get_transaction_rules", "create_transaction_rule", "update_transaction_rule",
		"delete_transaction_rule", "get_categories", "get_category_groups",
		"get_budgets", "set_budget_amount", "get_cashflow", "get_net_worth",
		"get_net_worth_by_account_type", "logout",
	} {
		assert.Contains(t, names, want)
	}
}

func TestErrorPayload(t *testing.T) {
	h := newHarness(t)
	h.transport.fail("GetAccounts", errors.New("upstream exploded"))

	body := h.call(t, "get_accounts", nil)

	var out errorPayload
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Error)
	assert.Equal(t, "get_accounts", out.Tool)
	assert.Contains(t, out.Message, "upstream exploded")
	assert.Contains(t, body, "\n  \"tool\"", "two space indentation")
}

func TestAuthRequiredIsReportedInBand(t *testing.T) {
	h := newHarness(t)
	h.provider.err = &provider.AuthRequiredError{}

	out := h.object(t, "get_tags", nil)

	assertToolError(t, out, "get_tags", "monarch-mcp login")
}

func TestPanicIsRecovered(t *testing.T) {
	h := newHarness(t)
	h.provider.panics = true

	out := h.object(t, "get_categories", nil)

	assertToolError(t, out, "get_categories", "panic: boom")
}

func TestUnknownTool(t *testing.T) {
	h := newHarness(t)

	out := h.object(t, "no_such_tool", nil)

	assertToolError(t, out, "no_such_tool", "unknown tool")
}

func TestInvalidArguments(t *testing.T) {
	h := newHarness(t)

	body := h.tools.Call(context.Background(), "get_transactions", json.RawMessage(`{"limit":"ten"}`))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assertToolError(t, out, "get_transactions", "invalid arguments")
}

func TestInvalidDate(t *testing.T) {
	h := newHarness(t)

	out := h.object(t, "get_transactions", map[string]any{"start_date": "03/01/2025"})

	assertToolError(t, out, "get_transactions", "start_date")
	assert.Zero(t, h.transport.count("Web_GetTransactionsList"))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   stats
		ok     bool
	}{
		{name: "empty", values: nil, ok: false},
		{name: "single", values: []float64{50}, want: stats{First: 50, Last: 50, Max: 50, Min: 50}, ok: true},
		{
			name:   "series",
			values: []float64{100, 80, 150},
			want:   stats{First: 100, Last: 150, Change: 50, ChangePercent: 50, Max: 150, Min: 80},
			ok:     true,
		},
		{
			name:   "zero start",
			values: []float64{0, 10},
			want:   stats{First: 0, Last: 10, Change: 10, Max: 10, Min: 0},
			ok:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := summarize(tt.values)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
