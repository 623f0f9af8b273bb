package tools

import (
	"context"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
)

// maxNetWorthSnapshots bounds the daily points returned by get_net_worth.
const maxNetWorthSnapshots = 365

type CashflowInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
}

type NetWorthInput struct {
	StartDate   string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (default: start of account history)"`
	EndDate     string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (default: today)"`
	AccountType string `json:"account_type,omitempty" jsonschema:"Only include one account type, e.g. brokerage, depository or credit"`
}

type netWorthPoint struct {
	Date     string   `json:"date"`
	NetWorth *float64 `json:"net_worth"`
}

type netWorthView struct {
	SnapshotCount    int             `json:"snapshot_count"`
	Snapshots        []netWorthPoint `json:"snapshots"`
	CurrentNetWorth  *float64        `json:"current_net_worth,omitempty"`
	EarliestNetWorth *float64        `json:"earliest_net_worth,omitempty"`
	Change           *float64        `json:"change,omitempty"`
	ChangePercent    *float64        `json:"change_percent,omitempty"`
	Highest          *float64        `json:"highest,omitempty"`
	Lowest           *float64        `json:"lowest,omitempty"`
}

type NetWorthByTypeInput struct {
	StartDate string `json:"start_date" jsonschema:"Start date in YYYY-MM-DD format"`
	Timeframe string `json:"timeframe,omitempty" jsonschema:"Granularity: month or year (default: month)"`
}

type typeSnapshot struct {
	Month   string  `json:"month"`
	Balance float64 `json:"balance"`
}

type accountTypeView struct {
	Type           string         `json:"type"`
	Group          string         `json:"group,omitempty"`
	Snapshots      []typeSnapshot `json:"snapshots"`
	CurrentBalance *float64       `json:"current_balance,omitempty"`
}

type netWorthByTypeView struct {
	Timeframe     string             `json:"timeframe"`
	StartDate     string             `json:"start_date"`
	AccountTypes  []*accountTypeView `json:"account_types"`
	TotalNetWorth float64            `json:"total_net_worth"`
}

// stats describes a series of balances, oldest first.
type stats struct {
	First, Last, Change, ChangePercent, Max, Min float64
}

// summarize reports false for an empty series. Change and ChangePercent are
// zero for a single point; ChangePercent is also zero when First is zero.
func summarize(values []float64) (stats, bool) {
	if len(values) == 0 {
		return stats{}, false
	}
	s := stats{First: values[0], Last: values[len(values)-1], Max: values[0], Min: values[0]}
	for _, v := range values[1:] {
		s.Max = max(s.Max, v)
		s.Min = min(s.Min, v)
	}
	if len(values) > 1 {
		s.Change = s.Last - s.First
		if s.First != 0 {
			s.ChangePercent = s.Change / s.First * 100
		}
	}
	return s, true
}

func (t *Toolset) defineFinancial() {
	define(t, "get_cashflow",
		"Get cashflow for a period: totals by category, category group and merchant plus income, expense and savings.",
		func(ctx context.Context, in CashflowInput) (any, error) {
			params, err := cashflowParams(in.StartDate, in.EndDate)
			if err != nil {
				return nil, err
			}
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			return client.Cashflow.Get(ctx, params)
		})

	define(t, "get_net_worth",
		"Get daily net worth history with current and earliest values, change, highest and lowest.",
		t.getNetWorth)

	define(t, "get_net_worth_by_account_type",
		"Get net worth per account type (checking, investments, credit cards and so on) by month or year.",
		t.getNetWorthByAccountType)
}

func (t *Toolset) getNetWorth(ctx context.Context, in NetWorthInput) (any, error) {
	start, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := client.NetWorth.AggregateSnapshots(ctx, &monarch.AggregateSnapshotParams{
		StartDate:   start,
		EndDate:     end,
		AccountType: in.AccountType,
	})
	if err != nil {
		return nil, err
	}

	out := &netWorthView{SnapshotCount: len(snapshots)}
	values := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Balance != nil {
			values = append(values, *s.Balance)
		}
	}
	if st, ok := summarize(values); ok {
		out.CurrentNetWorth = &st.Last
		out.EarliestNetWorth = &st.First
		out.Change = &st.Change
		out.ChangePercent = &st.ChangePercent
		out.Highest = &st.Max
		out.Lowest = &st.Min
	}

	recent := snapshots
	if len(recent) > maxNetWorthSnapshots {
		recent = recent[len(recent)-maxNetWorthSnapshots:]
	}
	out.Snapshots = make([]netWorthPoint, 0, len(recent))
	for _, s := range recent {
		out.Snapshots = append(out.Snapshots, netWorthPoint{Date: s.Date, NetWorth: s.Balance})
	}
	return out, nil
}

func (t *Toolset) getNetWorthByAccountType(ctx context.Context, in NetWorthByTypeInput) (any, error) {
	timeframe := in.Timeframe
	if timeframe == "" {
		timeframe = "month"
	}
	if timeframe != "month" && timeframe != "year" {
		return rejected("timeframe must be 'month' or 'year'"), nil
	}
	start, err := requireDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	history, err := client.NetWorth.SnapshotsByAccountType(ctx, start, timeframe)
	if err != nil {
		return nil, err
	}

	out := &netWorthByTypeView{
		Timeframe:    timeframe,
		StartDate:    in.StartDate,
		AccountTypes: make([]*accountTypeView, 0, len(history)),
	}
	for _, h := range history {
		v := &accountTypeView{
			Type:      h.AccountType,
			Group:     h.Group,
			Snapshots: make([]typeSnapshot, 0, len(h.Snapshots)),
		}
		for _, s := range h.Snapshots {
			v.Snapshots = append(v.Snapshots, typeSnapshot{Month: s.Month, Balance: s.Balance})
		}
		if n := len(v.Snapshots); n > 0 {
			current := v.Snapshots[n-1].Balance
			v.CurrentBalance = &current
			out.TotalNetWorth += current
		}
		out.AccountTypes = append(out.AccountTypes, v)
	}
	return out, nil
}
