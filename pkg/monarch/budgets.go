package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// BudgetData is the planning data for a range of months.
type BudgetData struct {
	MonthlyAmountsByCategory []*BudgetCategoryMonthly `json:"monthlyAmountsByCategory"`
	CategoryGroups           []*CategoryGroup         `json:"categoryGroups"`
}

// BudgetCategoryMonthly holds one category's amounts per month.
type BudgetCategoryMonthly struct {
	Category       *TransactionCategory   `json:"category"`
	MonthlyAmounts []*BudgetMonthlyAmount `json:"monthlyAmounts"`
}

// BudgetMonthlyAmount is a category's budget for a single month.
type BudgetMonthlyAmount struct {
	Month                       string   `json:"month"`
	PlannedCashFlowAmount       *float64 `json:"plannedCashFlowAmount"`
	ActualAmount                *float64 `json:"actualAmount"`
	RemainingAmount             *float64 `json:"remainingAmount"`
	PreviousMonthRolloverAmount *float64 `json:"previousMonthRolloverAmount"`
	RolloverType                *string  `json:"rolloverType"`
}

// SetBudgetParams targets exactly one of CategoryID or CategoryGroupID.
type SetBudgetParams struct {
	Amount          float64
	CategoryID      string
	CategoryGroupID string
	// StartDate selects the month; the zero value means the current month
	StartDate     time.Time
	ApplyToFuture bool
}

// BudgetItem is the budget entry a SetAmount call wrote.
type BudgetItem struct {
	ID           string  `json:"id"`
	BudgetAmount float64 `json:"budgetAmount"`
}

type budgetService struct {
	client *Client
}

// List retrieves budgets for a date range
func (s *budgetService) List(ctx context.Context, startDate, endDate time.Time) (*BudgetData, error) {
	query := s.client.loadQuery("budgets/list.graphql")

	variables := map[string]any{
		"startDate": startDate.Format(DateLayout),
		"endDate":   endDate.Format(DateLayout),
	}

	var result struct {
		BudgetData     *BudgetData      `json:"budgetData"`
		CategoryGroups []*CategoryGroup `json:"categoryGroups"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get budgets")
	}

	data := result.BudgetData
	if data == nil {
		data = &BudgetData{}
	}
	data.CategoryGroups = result.CategoryGroups
	return data, nil
}

// SetAmount sets the monthly budget of a category or category group
func (s *budgetService) SetAmount(ctx context.Context, params *SetBudgetParams) (*BudgetItem, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "budget parameters are required")
	}
	if (params.CategoryID == "") == (params.CategoryGroupID == "") {
		return nil, errors.Wrap(ErrInvalidRequest, "exactly one of category id or category group id is required")
	}

	start := params.StartDate
	if start.IsZero() {
		start = s.client.clock.Now()
	}
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	input := map[string]any{
		"startDate":     start.Format(DateLayout),
		"timeframe":     "month",
		"amount":        params.Amount,
		"applyToFuture": params.ApplyToFuture,
	}
	if params.CategoryID != "" {
		input["categoryId"] = params.CategoryID
	} else {
		input["categoryGroupId"] = params.CategoryGroupID
	}

	query := s.client.loadQuery("budgets/set_amount.graphql")
	var result struct {
		UpdateOrCreateBudgetItem struct {
			BudgetItem *BudgetItem `json:"budgetItem"`
		} `json:"updateOrCreateBudgetItem"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"input": input}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to set budget amount")
	}
	return result.UpdateOrCreateBudgetItem.BudgetItem, nil
}
