package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// refreshPollInterval is how often RefreshAndWait checks sync status.
const refreshPollInterval = 2 * time.Second

type accountService struct {
	client *Client
}

// RefreshResult reports what a refresh request covered.
type RefreshResult struct {
	Success    bool     `json:"success"`
	AccountIDs []string `json:"accountIds"`
	Complete   *bool    `json:"complete,omitempty"`
}

// List retrieves all accounts
func (s *accountService) List(ctx context.Context) ([]*Account, error) {
	query := s.client.loadQuery("accounts/list.graphql")

	var result struct {
		Accounts []*Account `json:"accounts"`
	}
	if err := s.client.executeGraphQL(ctx, query, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get accounts")
	}
	return result.Accounts, nil
}

// GetHistory retrieves the balance snapshots of one account, oldest first
func (s *accountService) GetHistory(ctx context.Context, accountID string) ([]*BalanceSnapshot, error) {
	if accountID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "account id is required")
	}
	query := s.client.loadQuery("accounts/history.graphql")

	var result struct {
		Snapshots []*BalanceSnapshot `json:"snapshots"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"id": accountID}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get account history")
	}
	return result.Snapshots, nil
}

// GetHoldings retrieves investment holdings for an account
func (s *accountService) GetHoldings(ctx context.Context, accountID string) ([]*Holding, error) {
	if accountID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "account id is required")
	}
	query := s.client.loadQuery("accounts/holdings.graphql")

	variables := map[string]any{
		"input": map[string]any{
			"accountIds":            []string{accountID},
			"includeHiddenHoldings": true,
		},
	}

	var result struct {
		Portfolio struct {
			AggregateHoldings struct {
				Edges []struct {
					Node *Holding `json:"node"`
				} `json:"edges"`
			} `json:"aggregateHoldings"`
		} `json:"portfolio"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get holdings")
	}

	holdings := make([]*Holding, 0, len(result.Portfolio.AggregateHoldings.Edges))
	for _, edge := range result.Portfolio.AggregateHoldings.Edges {
		if edge.Node != nil {
			holdings = append(holdings, edge.Node)
		}
	}
	return holdings, nil
}

// Refresh triggers a sync for the given accounts, or every account
func (s *accountService) Refresh(ctx context.Context, accountIDs ...string) (*RefreshResult, error) {
	if len(accountIDs) == 0 {
		accounts, err := s.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to fetch accounts for refresh")
		}
		for _, acc := range accounts {
			accountIDs = append(accountIDs, acc.ID)
		}
	}

	query := s.client.loadQuery("accounts/refresh.graphql")
	variables := map[string]any{
		"input": map[string]any{"accountIds": accountIDs},
	}

	var result struct {
		ForceRefreshAccounts struct {
			Success bool            `json:"success"`
			Errors  []*PayloadError `json:"errors"`
		} `json:"forceRefreshAccounts"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to request accounts refresh")
	}
	if err := payloadError(result.ForceRefreshAccounts.Errors); err != nil {
		return nil, err
	}

	return &RefreshResult{Success: result.ForceRefreshAccounts.Success, AccountIDs: accountIDs}, nil
}

// IsRefreshComplete reports whether none of the accounts is still syncing
func (s *accountService) IsRefreshComplete(ctx context.Context, accountIDs ...string) (bool, error) {
	query := s.client.loadQuery("accounts/refresh_status.graphql")

	var result struct {
		Accounts []struct {
			ID                string `json:"id"`
			HasSyncInProgress bool   `json:"hasSyncInProgress"`
		} `json:"accounts"`
	}
	if err := s.client.executeGraphQL(ctx, query, nil, &result); err != nil {
		return false, errors.Wrap(err, "failed to check refresh status")
	}

	wanted := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}
	for _, acc := range result.Accounts {
		if acc.HasSyncInProgress && (len(wanted) == 0 || wanted[acc.ID]) {
			return false, nil
		}
	}
	return true, nil
}

// RefreshAndWait triggers a refresh and polls until it completes. A timeout
// still returns the refresh result together with ErrRefreshTimeout.
func (s *accountService) RefreshAndWait(ctx context.Context, timeout time.Duration, accountIDs ...string) (*RefreshResult, error) {
	res, err := s.Refresh(ctx, accountIDs...)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, nil
	}

	clk := s.client.clock
	deadline := clk.After(timeout)
	for {
		done, err := s.IsRefreshComplete(ctx, res.AccountIDs...)
		if err != nil {
			return res, err
		}
		if done {
			res.Complete = &done
			return res, nil
		}

		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-deadline:
			res.Complete = &done
			return res, ErrRefreshTimeout
		case <-clk.After(refreshPollInterval):
		}
	}
}
