// Package bulk applies one operation to many IDs and tallies the outcome.
package bulk

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight operations when none is configured.
const DefaultConcurrency = 5

// ItemError is the failure for one ID.
type ItemError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Result tallies a run. Total == Successful+Failed and Failed == len(Errors).
type Result struct {
	Total      int         `json:"total"`
	Successful int         `json:"successful"`
	Failed     int         `json:"failed"`
	Errors     []ItemError `json:"errors"`
}

// Executor runs an operation over IDs with bounded concurrency.
type Executor struct {
	limit int
	items metric.Int64Counter
}

// New creates an executor running at most limit operations at once. A
// limit below 1 selects DefaultConcurrency; 1 runs sequentially.
func New(limit int) *Executor {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	items, _ := otel.Meter("github.com/eshaffer321/monarch-mcp/internal/bulk").Int64Counter(
		"monarch_mcp.bulk.items",
		metric.WithDescription("Bulk operation items by outcome"),
	)
	return &Executor{limit: limit, items: items}
}

// Run calls fn once per ID. A failing ID never stops the others; errors are
// reported in input order.
func (e *Executor) Run(ctx context.Context, ids []string, fn func(ctx context.Context, id string) error) Result {
	outcomes := make([]error, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(e.limit)
	for i, id := range ids {
		g.Go(func() error {
			outcomes[i] = call(ctx, id, fn)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Total: len(ids), Errors: []ItemError{}}
	for i, err := range outcomes {
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, ItemError{ID: ids[i], Error: err.Error()})
			continue
		}
		res.Successful++
	}

	if e.items != nil {
		e.items.Add(ctx, int64(res.Successful), metric.WithAttributes(attribute.String("outcome", "success")))
		e.items.Add(ctx, int64(res.Failed), metric.WithAttributes(attribute.String("outcome", "failure")))
	}
	return res
}

// call runs fn, turning a panic into an item error.
func call(ctx context.Context, id string, fn func(context.Context, string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return fn(ctx, id)
}
