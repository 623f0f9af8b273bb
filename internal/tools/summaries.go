package tools

import (
	"context"
	"math"
	"sort"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
)

type SpendingSummaryInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of categories to return (default: 100)"`
}

type period struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

type categorySpend struct {
	Category   string   `json:"category"`
	CategoryID *string  `json:"category_id"`
	Group      *string  `json:"group"`
	Sum        float64  `json:"sum"`
	Avg        *float64 `json:"avg"`
}

type spendingSummary struct {
	Period        period           `json:"period"`
	TotalIncome   float64          `json:"total_income"`
	TotalExpenses float64          `json:"total_expenses"`
	Net           float64          `json:"net"`
	ByCategory    []*categorySpend `json:"by_category"`
}

func (t *Toolset) defineSummaries() {
	define(t, "get_transactions_summary",
		"Get high level statistics over all transactions: count, sums, averages and the first and last dates.",
		func(ctx context.Context, _ struct{}) (any, error) {
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			return client.Transactions.GetSummary(ctx)
		})

	define(t, "get_spending_summary",
		"Get spending by category for a period with income, expense and net totals. Categories are ordered by the size of their total.",
		t.getSpendingSummary)
}

func (t *Toolset) getSpendingSummary(ctx context.Context, in SpendingSummaryInput) (any, error) {
	params, err := cashflowParams(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	cf, err := client.Cashflow.Get(ctx, params)
	if err != nil {
		return nil, err
	}

	out := &spendingSummary{
		Period:     period{StartDate: optional(in.StartDate), EndDate: optional(in.EndDate)},
		ByCategory: make([]*categorySpend, 0, len(cf.ByCategory)),
	}
	for _, agg := range cf.ByCategory {
		c := &categorySpend{
			Category: "Uncategorized",
			Sum:      agg.Summary.Sum,
			Avg:      agg.Summary.Avg,
		}
		if cat := agg.GroupBy.Category; cat != nil {
			c.Category = cat.Name
			c.CategoryID = &cat.ID
			if cat.Group != nil {
				c.Group = &cat.Group.Name
			}
		}
		out.ByCategory = append(out.ByCategory, c)

		if c.Sum > 0 {
			out.TotalIncome += c.Sum
		} else {
			out.TotalExpenses += math.Abs(c.Sum)
		}
	}
	out.Net = out.TotalIncome - out.TotalExpenses

	sort.SliceStable(out.ByCategory, func(i, j int) bool {
		return math.Abs(out.ByCategory[i].Sum) > math.Abs(out.ByCategory[j].Sum)
	})
	if limit := intOr(in.Limit, defaultTransactionLimit); len(out.ByCategory) > limit {
		out.ByCategory = out.ByCategory[:limit]
	}
	return out, nil
}

func cashflowParams(startDate, endDate string) (*monarch.CashflowParams, error) {
	start, err := parseDate("start_date", startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", endDate)
	if err != nil {
		return nil, err
	}
	return &monarch.CashflowParams{StartDate: start, EndDate: end}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
