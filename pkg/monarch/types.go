package monarch

// Account is a linked or manual financial account.
type Account struct {
	ID                          string           `json:"id"`
	DisplayName                 string           `json:"displayName"`
	SyncDisabled                bool             `json:"syncDisabled,omitempty"`
	DeactivatedAt               *string          `json:"deactivatedAt,omitempty"`
	IsHidden                    bool             `json:"isHidden,omitempty"`
	IsAsset                     bool             `json:"isAsset,omitempty"`
	Mask                        string           `json:"mask,omitempty"`
	CreatedAt                   string           `json:"createdAt,omitempty"`
	UpdatedAt                   string           `json:"updatedAt,omitempty"`
	DisplayLastUpdatedAt        string           `json:"displayLastUpdatedAt,omitempty"`
	CurrentBalance              *float64         `json:"currentBalance,omitempty"`
	DisplayBalance              *float64         `json:"displayBalance,omitempty"`
	IncludeInNetWorth           bool             `json:"includeInNetWorth,omitempty"`
	HideFromList                bool             `json:"hideFromList,omitempty"`
	HideTransactionsFromReports bool             `json:"hideTransactionsFromReports,omitempty"`
	DataProvider                string           `json:"dataProvider,omitempty"`
	IsManual                    bool             `json:"isManual,omitempty"`
	TransactionsCount           int              `json:"transactionsCount,omitempty"`
	HoldingsCount               int              `json:"holdingsCount,omitempty"`
	Order                       int              `json:"order,omitempty"`
	LogoURL                     string           `json:"logoUrl,omitempty"`
	Type                        *AccountTypeInfo `json:"type,omitempty"`
	Subtype                     *AccountTypeInfo `json:"subtype,omitempty"`
	Institution                 *Institution     `json:"institution,omitempty"`
	HasSyncInProgress           bool             `json:"hasSyncInProgress,omitempty"`
}

// IsActive reports whether the account has not been deactivated.
func (a *Account) IsActive() bool {
	return a.DeactivatedAt == nil || *a.DeactivatedAt == ""
}

// AccountTypeInfo names an account type or subtype.
type AccountTypeInfo struct {
	Name    string `json:"name"`
	Display string `json:"display,omitempty"`
}

// Institution is the bank or brokerage behind an account.
type Institution struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PrimaryColor string `json:"primaryColor,omitempty"`
	URL          string `json:"url,omitempty"`
}

// BalanceSnapshot is one day of an account's balance history.
type BalanceSnapshot struct {
	Date          string   `json:"date"`
	SignedBalance *float64 `json:"signedBalance"`
}

// Holding is an aggregated investment position.
type Holding struct {
	ID                         string    `json:"id"`
	Quantity                   float64   `json:"quantity"`
	Basis                      *float64  `json:"basis"`
	TotalValue                 *float64  `json:"totalValue"`
	SecurityPriceChangeDollars *float64  `json:"securityPriceChangeDollars"`
	SecurityPriceChangePercent *float64  `json:"securityPriceChangePercent"`
	LastSyncedAt               string    `json:"lastSyncedAt,omitempty"`
	Security                   *Security `json:"security"`
}

// Security describes the instrument a holding is in.
type Security struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Type                  string   `json:"type"`
	Ticker                string   `json:"ticker"`
	TypeDisplay           string   `json:"typeDisplay,omitempty"`
	CurrentPrice          *float64 `json:"currentPrice"`
	CurrentPriceUpdatedAt string   `json:"currentPriceUpdatedAt,omitempty"`
	ClosingPrice          *float64 `json:"closingPrice"`
	OneDayChangePercent   *float64 `json:"oneDayChangePercent"`
	OneDayChangeDollars   *float64 `json:"oneDayChangeDollars"`
}

// Merchant is the counterparty Monarch assigned to a transaction.
type Merchant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Attachment is a file attached to a transaction.
type Attachment struct {
	ID               string `json:"id"`
	Extension        string `json:"extension,omitempty"`
	Filename         string `json:"filename,omitempty"`
	OriginalAssetURL string `json:"originalAssetUrl,omitempty"`
	SizeBytes        int64  `json:"sizeBytes,omitempty"`
}

// Transaction is a single posted or pending transaction.
type Transaction struct {
	ID                   string               `json:"id"`
	Date                 Date                 `json:"date"`
	Amount               float64              `json:"amount"`
	Pending              bool                 `json:"pending"`
	HideFromReports      bool                 `json:"hideFromReports"`
	PlaidName            string               `json:"plaidName,omitempty"`
	Notes                string               `json:"notes,omitempty"`
	IsRecurring          bool                 `json:"isRecurring"`
	NeedsReview          bool                 `json:"needsReview"`
	ReviewedAt           *string              `json:"reviewedAt,omitempty"`
	IsSplitTransaction   bool                 `json:"isSplitTransaction"`
	HasSplitTransactions bool                 `json:"hasSplitTransactions"`
	CreatedAt            string               `json:"createdAt,omitempty"`
	UpdatedAt            string               `json:"updatedAt,omitempty"`
	Attachments          []*Attachment        `json:"attachments,omitempty"`
	Merchant             *Merchant            `json:"merchant"`
	Account              *Account             `json:"account"`
	Category             *TransactionCategory `json:"category"`
	Tags                 []*Tag               `json:"tags"`
}

// TransactionDetails is the full drawer view of a transaction.
type TransactionDetails struct {
	Transaction
	OriginalDate            *Date               `json:"originalDate,omitempty"`
	ReviewStatus            *string             `json:"reviewStatus,omitempty"`
	IsManual                bool                `json:"isManual"`
	DataProviderDescription string              `json:"dataProviderDescription,omitempty"`
	SplitTransactions       []*TransactionSplit `json:"splitTransactions"`
}

// TransactionList is one page of a transaction query.
type TransactionList struct {
	Transactions []*Transaction `json:"transactions"`
	TotalCount   int            `json:"totalCount"`
	HasMore      bool           `json:"hasMore"`
	NextOffset   int            `json:"nextOffset"`
}

// TransactionSummary aggregates every transaction in the household.
type TransactionSummary struct {
	Avg        *float64 `json:"avg"`
	Count      int      `json:"count"`
	Max        *float64 `json:"max"`
	MaxExpense *float64 `json:"maxExpense"`
	Sum        *float64 `json:"sum"`
	SumIncome  *float64 `json:"sumIncome"`
	SumExpense *float64 `json:"sumExpense"`
	First      *string  `json:"first"`
	Last       *string  `json:"last"`
}

// TransactionSplit is one part of a split transaction.
type TransactionSplit struct {
	ID       string               `json:"id"`
	Amount   float64              `json:"amount"`
	Notes    string               `json:"notes,omitempty"`
	Merchant *Merchant            `json:"merchant"`
	Category *TransactionCategory `json:"category"`
}

// TransactionSplits is a parent transaction together with its splits.
type TransactionSplits struct {
	ID                   string               `json:"id"`
	Amount               float64              `json:"amount"`
	HasSplitTransactions bool                 `json:"hasSplitTransactions,omitempty"`
	Category             *TransactionCategory `json:"category,omitempty"`
	Merchant             *Merchant            `json:"merchant,omitempty"`
	SplitTransactions    []*TransactionSplit  `json:"splitTransactions"`
}

// SplitInput describes one part of a requested split.
type SplitInput struct {
	Amount       float64 `json:"amount"`
	CategoryID   string  `json:"categoryId,omitempty"`
	MerchantName string  `json:"merchantName,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// TransactionCategory is a category transactions are filed under.
type TransactionCategory struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Icon             string         `json:"icon,omitempty"`
	Order            int            `json:"order,omitempty"`
	SystemCategory   string         `json:"systemCategory,omitempty"`
	IsSystemCategory bool           `json:"isSystemCategory,omitempty"`
	IsDisabled       bool           `json:"isDisabled,omitempty"`
	Group            *CategoryGroup `json:"group,omitempty"`
}

// CategoryGroup collects categories, e.g. Income or Food & Dining.
type CategoryGroup struct {
	ID                         string                 `json:"id"`
	Name                       string                 `json:"name"`
	Type                       string                 `json:"type,omitempty"`
	Order                      int                    `json:"order,omitempty"`
	BudgetVariability          string                 `json:"budgetVariability,omitempty"`
	GroupLevelBudgetingEnabled bool                   `json:"groupLevelBudgetingEnabled,omitempty"`
	Categories                 []*TransactionCategory `json:"categories,omitempty"`
}

// Tag is a household transaction tag.
type Tag struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Color            string `json:"color,omitempty"`
	Order            int    `json:"order"`
	TransactionCount int    `json:"transactionCount,omitempty"`
}

// RecurringTransactionItem is one expected occurrence of a recurring stream.
type RecurringTransactionItem struct {
	Date          string               `json:"date"`
	IsPast        bool                 `json:"isPast"`
	TransactionID *string              `json:"transactionId"`
	Amount        *float64             `json:"amount"`
	AmountDiff    *float64             `json:"amountDiff,omitempty"`
	Stream        *RecurringStream     `json:"stream"`
	Category      *TransactionCategory `json:"category"`
	Account       *Account             `json:"account"`
}

// RecurringStream is the schedule a recurring item belongs to.
type RecurringStream struct {
	ID            string    `json:"id"`
	Frequency     string    `json:"frequency"`
	Amount        *float64  `json:"amount"`
	IsApproximate bool      `json:"isApproximate"`
	Merchant      *Merchant `json:"merchant"`
}

// AggregateSnapshot is the household net worth on one day.
type AggregateSnapshot struct {
	Date    string   `json:"date"`
	Balance *float64 `json:"balance"`
}

// AccountTypeSnapshot is the balance of one account type in one period.
type AccountTypeSnapshot struct {
	AccountType string  `json:"accountType"`
	Month       string  `json:"month"`
	Balance     float64 `json:"balance"`
}

// AccountTypeHistory groups snapshots by account type, oldest first.
type AccountTypeHistory struct {
	AccountType string                 `json:"accountType"`
	Group       string                 `json:"group,omitempty"`
	Snapshots   []*AccountTypeSnapshot `json:"snapshots"`
}

// PayloadError is the errors member returned by mutations.
type PayloadError struct {
	Message     string        `json:"message"`
	Code        string        `json:"code"`
	FieldErrors []*FieldError `json:"fieldErrors,omitempty"`
}

// FieldError is a validation message for one input field.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}
