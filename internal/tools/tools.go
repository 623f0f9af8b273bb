// Package tools exposes the Monarch operations as MCP tools. Every tool
// answers with a single JSON text; failures are reported in-band as
// {"error": true, "tool": ..., "message": ...} and never as protocol errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/eshaffer321/monarch-mcp/internal/bulk"
	"github.com/eshaffer321/monarch-mcp/internal/capture"
	"github.com/eshaffer321/monarch-mcp/internal/logging"
	"github.com/eshaffer321/monarch-mcp/internal/session"
	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/juju/clock"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/eshaffer321/monarch-mcp/internal/tools"

// ClientProvider hands out the authenticated client.
type ClientProvider interface {
	Client(ctx context.Context) (*monarch.Client, error)
	ClearCache()
}

// TokenStore is the part of session.Store the auth tools inspect.
type TokenStore interface {
	Lookup() session.Lookup
	DeleteToken()
}

// Authenticator runs an interactive token capture.
type Authenticator interface {
	Run(ctx context.Context) capture.Result
}

// Deps are the collaborators shared by every tool.
type Deps struct {
	Provider ClientProvider
	Store    TokenStore
	Capture  Authenticator
	Bulk     *bulk.Executor
	Logger   *slog.Logger
	Clock    clock.Clock

	// Env reads environment variables; defaults to os.Getenv
	Env func(string) string
}

type tool struct {
	name string
	register func(server *mcp.Server)
	call     func(ctx context.Context, args json.RawMessage) string
}

// Toolset is the full set of Monarch tools.
type Toolset struct {
	deps   Deps
	tools  map[string]*tool
	order  []string
	tracer trace.Tracer
	calls  metric.Int64Counter
}

// New creates the toolset with every tool defined.
func New(deps Deps) *Toolset {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Clock == nil {
		deps.Clock = clock.WallClock
	}
	if deps.Env == nil {
		deps.Env = os.Getenv
	}
	if deps.Bulk == nil {
		deps.Bulk = bulk.New(bulk.DefaultConcurrency)
	}

	calls, _ := otel.Meter(instrumentationName).Int64Counter(
		"monarch_mcp.tool.calls",
		metric.WithDescription("Tool invocations by tool and outcome"),
	)

	t := &Toolset{
		deps:   deps,
		tools:  make(map[string]*tool),
		tracer: otel.Tracer(instrumentationName),
		calls:  calls,
	}
	t.defineAuth()
	t.defineAccounts()
	t.defineTransactions()
	t.defineSummaries()
	t.defineSplits()
	t.defineTags()
	t.defineRules()
	t.defineCategories()
	t.defineBudgets()
	t.defineFinancial()
	return t
}

// Names lists the tool names in definition order.
func (t *Toolset) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Register adds every tool to server.
func (t *Toolset) Register(server *mcp.Server) {
	for _, name := range t.order {
		t.tools[name].register(server)
	}
}

// Call runs a tool by name with raw JSON arguments and returns its text.
func (t *Toolset) Call(ctx context.Context, name string, args json.RawMessage) string {
	tl, ok := t.tools[name]
	if !ok {
		return t.failure(name, errors.Errorf("unknown tool %q", name))
	}
	return tl.call(ctx, args)
}

// text is returned by tools whose answer is prose rather than JSON.
type text string

// define registers a tool whose arguments decode into In.
func define[In any](t *Toolset, name, description string, fn func(ctx context.Context, in In) (any, error)) {
	run := func(ctx context.Context, in In) string {
		return t.invoke(ctx, name, func(ctx context.Context) (any, error) {
			return fn(ctx, in)
		})
	}

	t.tools[name] = &tool{
		name: name,
		register: func(server *mcp.Server) {
			mcp.AddTool(server, &mcp.Tool{Name: name, Description: description},
				func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
					return &mcp.CallToolResult{
						Content: []mcp.Content{&mcp.TextContent{Text: run(ctx, in)}},
					}, nil, nil
				})
		},
		call: func(ctx context.Context, args json.RawMessage) string {
			var in In
			if len(args) > 0 {
				if err := json.Unmarshal(args, &in); err != nil {
					return t.failure(name, errors.Wrap(err, "invalid arguments"))
				}
			}
			return run(ctx, in)
		},
	}
	t.order = append(t.order, name)
}

// invoke runs fn inside a span and converts its outcome, including a
// panic, into the tool's text.
func (t *Toolset) invoke(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) (out string) {
	ctx, span := t.tracer.Start(ctx, "tool."+name, trace.WithAttributes(attribute.String("tool.name", name)))
	defer span.End()

	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			err := fmt.Errorf("panic: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			out = t.failure(name, err)
		}
		t.calls.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", name),
			attribute.String("outcome", outcome),
		))
	}()

	result, err := fn(ctx)
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return t.failure(name, err)
	}
	if s, ok := result.(text); ok {
		return string(s)
	}
	return t.success(name, result)
}

type errorPayload struct {
	Error   bool   `json:"error"`
	Tool    string `json:"tool"`
	Message string `json:"message"`
}

func (t *Toolset) failure(name string, err error) string {
	t.deps.Logger.Error("tool failed", "tool", name, "error", err)
	return marshal(&errorPayload{Error: true, Tool: name, Message: err.Error()})
}

func (t *Toolset) success(name string, v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return t.failure(name, errors.Wrap(err, "failed to encode result"))
	}
	return string(b)
}

func marshal(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// client resolves the authenticated client for a tool call.
func (t *Toolset) client(ctx context.Context) (*monarch.Client, error) {
	if t.deps.Provider == nil {
		return nil, errors.New("no client provider configured")
	}
	return t.deps.Provider.Client(ctx)
}

// sortedKeys is used where a tool groups by name.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
