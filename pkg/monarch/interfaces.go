package monarch

import (
	"context"
	"time"
)

// AccountService handles accounts and their balances.
type AccountService interface {
	// List retrieves all accounts
	List(ctx context.Context) ([]*Account, error)

	// GetHistory retrieves the daily balance history of an account
	GetHistory(ctx context.Context, accountID string) ([]*BalanceSnapshot, error)

	// GetHoldings retrieves investment holdings for an account
	GetHoldings(ctx context.Context, accountID string) ([]*Holding, error)

	// Refresh asks institutions to sync; no IDs means every account
	Refresh(ctx context.Context, accountIDs ...string) (*RefreshResult, error)

	// IsRefreshComplete reports whether no listed account is still syncing
	IsRefreshComplete(ctx context.Context, accountIDs ...string) (bool, error)

	// RefreshAndWait refreshes and polls until the syncs finish or timeout
	RefreshAndWait(ctx context.Context, timeout time.Duration, accountIDs ...string) (*RefreshResult, error)
}

// TransactionService handles transactions.
type TransactionService interface {
	// Query returns a transaction query builder
	Query() TransactionQueryBuilder

	Get(ctx context.Context, transactionID string) (*TransactionDetails, error)
	Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error)
	Update(ctx context.Context, transactionID string, params *UpdateTransactionParams) (*Transaction, error)
	Delete(ctx context.Context, transactionID string) error

	// GetSummary aggregates every transaction in the household
	GetSummary(ctx context.Context) (*TransactionSummary, error)

	GetSplits(ctx context.Context, transactionID string) (*TransactionSplits, error)

	// UpdateSplits replaces the splits; an empty slice removes them
	UpdateSplits(ctx context.Context, transactionID string, splits []*SplitInput) (*TransactionSplits, error)

	// Categories returns the category sub-service
	Categories() TransactionCategoryService
}

// TransactionCategoryService handles categories and their groups.
type TransactionCategoryService interface {
	List(ctx context.Context) ([]*TransactionCategory, error)
	GetGroups(ctx context.Context) ([]*CategoryGroup, error)
}

// TransactionQueryBuilder builds a transaction list query. Only filters
// that were set are sent.
type TransactionQueryBuilder interface {
	Between(start, end time.Time) TransactionQueryBuilder
	StartingFrom(start time.Time) TransactionQueryBuilder
	Until(end time.Time) TransactionQueryBuilder
	WithAccounts(accountIDs ...string) TransactionQueryBuilder
	WithCategories(categoryIDs ...string) TransactionQueryBuilder
	WithTags(tagIDs ...string) TransactionQueryBuilder
	Search(query string) TransactionQueryBuilder
	WithAttachments(has bool) TransactionQueryBuilder
	WithNotes(has bool) TransactionQueryBuilder
	HiddenFromReports(hidden bool) TransactionQueryBuilder
	Split(split bool) TransactionQueryBuilder
	Recurring(recurring bool) TransactionQueryBuilder
	Limit(limit int) TransactionQueryBuilder
	Offset(offset int) TransactionQueryBuilder

	// Filters returns a copy of the filters set so far
	Filters() TransactionFilters

	// Execute runs the query
	Execute(ctx context.Context) (*TransactionList, error)
}

// TagService handles transaction tags.
type TagService interface {
	List(ctx context.Context) ([]*Tag, error)
	Create(ctx context.Context, name, color string) (*Tag, error)

	// SetTransactionTags replaces every tag on a transaction
	SetTransactionTags(ctx context.Context, transactionID string, tagIDs ...string) (*Transaction, error)
}

// BudgetService handles budgets.
type BudgetService interface {
	// List retrieves budget amounts for the months between start and end
	List(ctx context.Context, startDate, endDate time.Time) (*BudgetData, error)

	// SetAmount sets the budget of one category or category group
	SetAmount(ctx context.Context, params *SetBudgetParams) (*BudgetItem, error)
}

// CashflowService handles cashflow analysis.
type CashflowService interface {
	// Get retrieves totals grouped by category, group and merchant
	Get(ctx context.Context, params *CashflowParams) (*Cashflow, error)

	// GetSummary retrieves income, expense and savings totals
	GetSummary(ctx context.Context, params *CashflowParams) (*CashflowSummary, error)
}

// RecurringService handles recurring transaction streams.
type RecurringService interface {
	// ListUpcoming retrieves expected recurring items between start and end
	ListUpcoming(ctx context.Context, startDate, endDate time.Time) ([]*RecurringTransactionItem, error)
}

// NetWorthService handles net worth history.
type NetWorthService interface {
	// AggregateSnapshots retrieves daily household net worth
	AggregateSnapshots(ctx context.Context, params *AggregateSnapshotParams) ([]*AggregateSnapshot, error)

	// SnapshotsByAccountType retrieves balances per account type per period
	SnapshotsByAccountType(ctx context.Context, startDate time.Time, timeframe string) ([]*AccountTypeHistory, error)
}

// AuthService performs password logins and installs the resulting token.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	LoginWithMFA(ctx context.Context, email, password, mfaCode string) error
	LoginWithTOTP(ctx context.Context, email, password, totpSecret string) error
}
