package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// CashflowParams bounds a cashflow query; nil dates are open ended.
type CashflowParams struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (p *CashflowParams) filters() map[string]any {
	out := map[string]any{"search": "", "categories": []string{}, "accounts": []string{}, "tags": []string{}}
	if p == nil {
		return out
	}
	if p.StartDate != nil {
		out["startDate"] = p.StartDate.Format(DateLayout)
	}
	if p.EndDate != nil {
		out["endDate"] = p.EndDate.Format(DateLayout)
	}
	return out
}

// Cashflow holds grouped totals for a period.
type Cashflow struct {
	ByCategory      []*CashflowAggregate `json:"byCategory"`
	ByCategoryGroup []*CashflowAggregate `json:"byCategoryGroup"`
	ByMerchant      []*CashflowAggregate `json:"byMerchant"`
	Summary         *CashflowSummary     `json:"summary"`
}

// CashflowAggregate is the total for one group key.
type CashflowAggregate struct {
	GroupBy struct {
		Category      *TransactionCategory `json:"category,omitempty"`
		CategoryGroup *CategoryGroup       `json:"categoryGroup,omitempty"`
		Merchant      *Merchant            `json:"merchant,omitempty"`
	} `json:"groupBy"`
	Summary struct {
		Sum   float64  `json:"sum"`
		Avg   *float64 `json:"avg,omitempty"`
		Count int      `json:"count,omitempty"`
	} `json:"summary"`
}

// CashflowSummary is income, expense and savings for a period.
type CashflowSummary struct {
	SumIncome   float64  `json:"sumIncome"`
	SumExpense  float64  `json:"sumExpense"`
	Savings     float64  `json:"savings"`
	SavingsRate *float64 `json:"savingsRate"`
}

type aggregateSummary struct {
	Summary *CashflowSummary `json:"summary"`
}

func firstSummary(aggs []aggregateSummary) *CashflowSummary {
	if len(aggs) == 0 || aggs[0].Summary == nil {
		return &CashflowSummary{}
	}
	return aggs[0].Summary
}

type cashflowService struct {
	client *Client
}

// Get retrieves cashflow grouped by category, category group and merchant
func (s *cashflowService) Get(ctx context.Context, params *CashflowParams) (*Cashflow, error) {
	query := s.client.loadQuery("cashflow/get.graphql")

	var result struct {
		ByCategory      []*CashflowAggregate `json:"byCategory"`
		ByCategoryGroup []*CashflowAggregate `json:"byCategoryGroup"`
		ByMerchant      []*CashflowAggregate `json:"byMerchant"`
		Summary         []aggregateSummary   `json:"summary"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"filters": params.filters()}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get cashflow")
	}

	return &Cashflow{
		ByCategory:      result.ByCategory,
		ByCategoryGroup: result.ByCategoryGroup,
		ByMerchant:      result.ByMerchant,
		Summary:         firstSummary(result.Summary),
	}, nil
}

// GetSummary retrieves income, expense and savings totals
func (s *cashflowService) GetSummary(ctx context.Context, params *CashflowParams) (*CashflowSummary, error) {
	query := s.client.loadQuery("cashflow/summary.graphql")

	var result struct {
		Summary []aggregateSummary `json:"summary"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"filters": params.filters()}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get cashflow summary")
	}
	return firstSummary(result.Summary), nil
}
