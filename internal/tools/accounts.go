package tools

import (
	"context"
	"time"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/pkg/errors"
)

const defaultRefreshTimeout = 5 * time.Minute

type accountView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        *string  `json:"type"`
	Balance     *float64 `json:"balance"`
	Institution *string  `json:"institution"`
	IsActive    bool     `json:"is_active"`
}

type RefreshAccountsInput struct {
	AccountIDs     []string `json:"account_ids,omitempty" jsonschema:"Accounts to refresh; all accounts when omitted"`
	Wait           bool     `json:"wait,omitempty" jsonschema:"Wait until institutions finish syncing"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty" jsonschema:"Maximum seconds to wait when wait is set (default: 300)"`
}

type refreshView struct {
	Success    bool     `json:"success"`
	AccountIDs []string `json:"account_ids"`
	Complete   *bool    `json:"complete,omitempty"`
	TimedOut   bool     `json:"timed_out,omitempty"`
}

type AccountIDInput struct {
	AccountID string `json:"account_id" jsonschema:"The account ID (use get_accounts to find IDs)"`
}

type holdingView struct {
	ID           string   `json:"id"`
	Ticker       string   `json:"ticker,omitempty"`
	Name         string   `json:"name,omitempty"`
	Type         string   `json:"type,omitempty"`
	Quantity     float64  `json:"quantity"`
	Basis        *float64 `json:"basis"`
	TotalValue   *float64 `json:"total_value"`
	CurrentPrice *float64 `json:"current_price"`
	ChangeAmount *float64 `json:"change_dollars"`
	ChangePct    *float64 `json:"change_percent"`
	LastSyncedAt string   `json:"last_synced_at,omitempty"`
}

type balancePoint struct {
	Date    string   `json:"date"`
	Balance *float64 `json:"balance"`
}

type balanceHistory struct {
	AccountID       string         `json:"account_id"`
	SnapshotCount   int            `json:"snapshot_count"`
	Snapshots       []balancePoint `json:"snapshots"`
	CurrentBalance  *float64       `json:"current_balance,omitempty"`
	EarliestBalance *float64       `json:"earliest_balance,omitempty"`
	Change          *float64       `json:"change,omitempty"`
	Highest         *float64       `json:"highest,omitempty"`
	Lowest          *float64       `json:"lowest,omitempty"`
}

func (t *Toolset) defineAccounts() {
	define(t, "get_accounts",
		"Get all financial accounts with their type, balance, institution and status.",
		t.getAccounts)

	define(t, "refresh_accounts",
		"Request an account data refresh from financial institutions, optionally waiting for the syncs to finish.",
		t.refreshAccounts)

	define(t, "get_account_holdings",
		"Get investment holdings for an account.",
		t.getAccountHoldings)

	define(t, "get_account_balance_history",
		"Get the historical balance snapshots of an account with current, earliest, highest and lowest balances.",
		t.getAccountBalanceHistory)
}

func (t *Toolset) getAccounts(ctx context.Context, _ struct{}) (any, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := client.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*accountView, 0, len(accounts))
	for _, acc := range accounts {
		v := &accountView{
			ID:       acc.ID,
			Name:     acc.DisplayName,
			Balance:  acc.CurrentBalance,
			IsActive: acc.IsActive(),
		}
		if acc.Type != nil {
			v.Type = &acc.Type.Name
		}
		if acc.Institution != nil {
			v.Institution = &acc.Institution.Name
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Toolset) refreshAccounts(ctx context.Context, in RefreshAccountsInput) (any, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}

	var res *monarch.RefreshResult
	timedOut := false
	if in.Wait {
		timeout := defaultRefreshTimeout
		if in.TimeoutSeconds > 0 {
			timeout = time.Duration(in.TimeoutSeconds) * time.Second
		}
		res, err = client.Accounts.RefreshAndWait(ctx, timeout, in.AccountIDs...)
		if errors.Is(err, monarch.ErrRefreshTimeout) {
			timedOut, err = true, nil
		}
	} else {
		res, err = client.Accounts.Refresh(ctx, in.AccountIDs...)
	}
	if err != nil {
		return nil, err
	}

	ids := res.AccountIDs
	if ids == nil {
		ids = []string{}
	}
	return &refreshView{Success: res.Success, AccountIDs: ids, Complete: res.Complete, TimedOut: timedOut}, nil
}

func (t *Toolset) getAccountHoldings(ctx context.Context, in AccountIDInput) (any, error) {
	if err := required("account_id", in.AccountID); err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	holdings, err := client.Accounts.GetHoldings(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	out := make([]*holdingView, 0, len(holdings))
	for _, h := range holdings {
		v := &holdingView{
			ID:           h.ID,
			Quantity:     h.Quantity,
			Basis:        h.Basis,
			TotalValue:   h.TotalValue,
			ChangeAmount: h.SecurityPriceChangeDollars,
			ChangePct:    h.SecurityPriceChangePercent,
			LastSyncedAt: h.LastSyncedAt,
		}
		if sec := h.Security; sec != nil {
			v.Ticker = sec.Ticker
			v.Name = sec.Name
			v.Type = sec.Type
			v.CurrentPrice = sec.CurrentPrice
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Toolset) getAccountBalanceHistory(ctx context.Context, in AccountIDInput) (any, error) {
	if err := required("account_id", in.AccountID); err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	snapshots, err := client.Accounts.GetHistory(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	out := &balanceHistory{
		AccountID:     in.AccountID,
		SnapshotCount: len(snapshots),
		Snapshots:     make([]balancePoint, 0, len(snapshots)),
	}
	values := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		out.Snapshots = append(out.Snapshots, balancePoint{Date: s.Date, Balance: s.SignedBalance})
		if s.SignedBalance != nil {
			values = append(values, *s.SignedBalance)
		}
	}
	if st, ok := summarize(values); ok {
		out.CurrentBalance = &st.Last
		out.EarliestBalance = &st.First
		out.Change = &st.Change
		out.Highest = &st.Max
		out.Lowest = &st.Min
	}
	return out, nil
}
