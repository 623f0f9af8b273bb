package tools

import (
	"time"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"github.com/pkg/errors"
)

// parseDate parses an optional YYYY-MM-DD argument.
func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := monarch.ParseDate(s)
	if err != nil {
		return nil, errors.Wrap(err, field)
	}
	return &d.Time, nil
}

// requireDate parses a mandatory YYYY-MM-DD argument.
func requireDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.Errorf("%s is required", field)
	}
	t, err := parseDate(field, s)
	if err != nil {
		return time.Time{}, err
	}
	return *t, nil
}

func required(field, value string) error {
	if value == "" {
		return errors.Errorf("%s is required", field)
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func formatDate(d monarch.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(monarch.DateLayout)
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

type tagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transactionView struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"`
	Amount          float64  `json:"amount"`
	Merchant        *string  `json:"merchant"`
	OriginalName    string   `json:"original_name"`
	Category        *string  `json:"category"`
	CategoryID      *string  `json:"category_id"`
	Account         *string  `json:"account"`
	AccountID       *string  `json:"account_id"`
	Notes           string   `json:"notes"`
	NeedsReview     bool     `json:"needs_review"`
	IsPending       bool     `json:"is_pending"`
	HideFromReports bool     `json:"hide_from_reports"`
	Tags            []tagRef `json:"tags"`

	IsSplit        *bool `json:"is_split,omitempty"`
	IsRecurring    *bool `json:"is_recurring,omitempty"`
	HasAttachments *bool `json:"has_attachments,omitempty"`
}

// viewTransaction flattens a transaction. extended adds the split,
// recurring and attachment flags.
func viewTransaction(tx *monarch.Transaction, extended bool) *transactionView {
	v := &transactionView{
		ID:              tx.ID,
		Date:            formatDate(tx.Date),
		Amount:          tx.Amount,
		OriginalName:    tx.PlaidName,
		Notes:           tx.Notes,
		NeedsReview:     tx.NeedsReview,
		IsPending:       tx.Pending,
		HideFromReports: tx.HideFromReports,
		Tags:            make([]tagRef, 0, len(tx.Tags)),
	}
	if tx.Merchant != nil {
		v.Merchant = &tx.Merchant.Name
	}
	if tx.Category != nil {
		v.Category = &tx.Category.Name
		v.CategoryID = &tx.Category.ID
	}
	if tx.Account != nil {
		v.Account = &tx.Account.DisplayName
		v.AccountID = &tx.Account.ID
	}
	for _, tag := range tx.Tags {
		if tag != nil {
			v.Tags = append(v.Tags, tagRef{ID: tag.ID, Name: tag.Name})
		}
	}
	if extended {
		split := tx.IsSplitTransaction
		recurring := tx.IsRecurring
		attachments := len(tx.Attachments) > 0
		v.IsSplit = &split
		v.IsRecurring = &recurring
		v.HasAttachments = &attachments
	}
	return v
}

func viewTransactions(txs []*monarch.Transaction, extended bool) []*transactionView {
	out := make([]*transactionView, 0, len(txs))
	for _, tx := range txs {
		if tx != nil {
			out = append(out, viewTransaction(tx, extended))
		}
	}
	return out
}

// mutationResult is the answer of the confirm-style tools.
type mutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Result  any    `json:"result,omitempty"`
}

func rejected(msg string) *mutationResult {
	return &mutationResult{Success: false, Error: msg}
}
