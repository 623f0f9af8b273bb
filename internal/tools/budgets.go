package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
)

type GetBudgetsInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format (default: start of last month)"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format (default: end of next month)"`
}

type budgetCategoryView struct {
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	CategoryIcon string   `json:"category_icon"`
	Group        *string  `json:"group"`
	Budgeted     *float64 `json:"budgeted"`
	Spent        *float64 `json:"spent"`
	Remaining    *float64 `json:"remaining"`
	Rollover     *float64 `json:"rollover"`
	RolloverType *string  `json:"rollover_type,omitempty"`
}

type budgetMonthView struct {
	Month         string                `json:"month"`
	TotalBudgeted float64               `json:"total_budgeted"`
	TotalSpent    float64               `json:"total_spent"`
	Categories    []*budgetCategoryView `json:"categories"`
}

type SetBudgetAmountInput struct {
	Amount          float64 `json:"amount" jsonschema:"Budget amount; 0 clears the budget"`
	CategoryID      string  `json:"category_id,omitempty" jsonschema:"Category ID to budget; cannot be combined with category_group_id"`
	CategoryGroupID string  `json:"category_group_id,omitempty" jsonschema:"Category group ID to budget; cannot be combined with category_id"`
	StartDate       string  `json:"start_date,omitempty" jsonschema:"Month to budget as YYYY-MM-DD (default: current month)"`
	ApplyToFuture   bool    `json:"apply_to_future,omitempty" jsonschema:"Apply the amount to all future months"`
}

func (t *Toolset) defineBudgets() {
	define(t, "get_budgets",
		"Get budgets per month with budgeted, spent, remaining and rollover amounts for each category.",
		t.getBudgets)

	define(t, "set_budget_amount",
		"Set the monthly budget of one category or one category group, optionally for all future months.",
		t.setBudgetAmount)
}

func (t *Toolset) getBudgets(ctx context.Context, in GetBudgetsInput) (any, error) {
	now := t.deps.Clock.Now()
	start, _ := monarch.MonthBounds(now.AddDate(0, -1, 0))
	_, end := monarch.MonthBounds(time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC))
	if d, err := parseDate("start_date", in.StartDate); err != nil {
		return nil, err
	} else if d != nil {
		start = *d
	}
	if d, err := parseDate("end_date", in.EndDate); err != nil {
		return nil, err
	} else if d != nil {
		end = *d
	}

	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	data, err := client.Budgets.List(ctx, start, end)
	if err != nil {
		return nil, err
	}

	months := make(map[string]*budgetMonthView)
	for _, entry := range data.MonthlyAmountsByCategory {
		if entry == nil || entry.Category == nil {
			continue
		}
		cat := entry.Category
		for _, amt := range entry.MonthlyAmounts {
			m, ok := months[amt.Month]
			if !ok {
				m = &budgetMonthView{Month: amt.Month, Categories: []*budgetCategoryView{}}
				months[amt.Month] = m
			}
			v := &budgetCategoryView{
				CategoryID:   cat.ID,
				CategoryName: cat.Name,
				CategoryIcon: cat.Icon,
				Budgeted:     amt.PlannedCashFlowAmount,
				Spent:        amt.ActualAmount,
				Remaining:    amt.RemainingAmount,
				Rollover:     amt.PreviousMonthRolloverAmount,
				RolloverType: amt.RolloverType,
			}
			if cat.Group != nil {
				v.Group = &cat.Group.Name
			}
			m.Categories = append(m.Categories, v)
			m.TotalBudgeted += value(amt.PlannedCashFlowAmount)
			m.TotalSpent += value(amt.ActualAmount)
		}
	}

	out := make([]*budgetMonthView, 0, len(months))
	for _, month := range sortedKeys(months) {
		out = append(out, months[month])
	}
	return out, nil
}

func (t *Toolset) setBudgetAmount(ctx context.Context, in SetBudgetAmountInput) (any, error) {
	switch {
	case in.CategoryID != "" && in.CategoryGroupID != "":
		return rejected("Cannot specify both category_id and category_group_id. Choose one."), nil
	case in.CategoryID == "" && in.CategoryGroupID == "":
		return rejected("Must specify either category_id or category_group_id."), nil
	}

	params := &monarch.SetBudgetParams{
		Amount:          in.Amount,
		CategoryID:      in.CategoryID,
		CategoryGroupID: in.CategoryGroupID,
		ApplyToFuture:   in.ApplyToFuture,
	}
	if d, err := parseDate("start_date", in.StartDate); err != nil {
		return nil, err
	} else if d != nil {
		params.StartDate = *d
	}

	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	item, err := client.Budgets.SetAmount(ctx, params)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Budget set to $%.2f", in.Amount)
	if in.ApplyToFuture {
		msg += " for all future months"
	}
	return &mutationResult{Success: true, Message: msg, Result: item}, nil
}
