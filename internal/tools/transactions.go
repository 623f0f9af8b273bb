package tools

import (
	"context"
	"fmt"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
)

const defaultTransactionLimit = 100

type GetTransactionsInput struct {
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of transactions to return (default: 100)"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Number of transactions to skip for pagination"`
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
	AccountID string `json:"account_id,omitempty" jsonschema:"Only include transactions from this account"`
}

type transactionSummaryView struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	Account     *string `json:"account"`
	Merchant    *string `json:"merchant"`
	IsPending   bool    `json:"is_pending"`
}

type SearchTransactionsInput struct {
	Limit             int      `json:"limit,omitempty" jsonschema:"Maximum number of transactions to return (default: 100)"`
	Offset            int      `json:"offset,omitempty" jsonschema:"Number of transactions to skip for pagination"`
	Search            string   `json:"search,omitempty" jsonschema:"Text to search merchant names and descriptions"`
	StartDate         string   `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate           string   `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
	CategoryIDs       []string `json:"category_ids,omitempty" jsonschema:"Only include these category IDs"`
	AccountIDs        []string `json:"account_ids,omitempty" jsonschema:"Only include these account IDs"`
	TagIDs            []string `json:"tag_ids,omitempty" jsonschema:"Only include transactions with these tag IDs"`
	HasAttachments    *bool    `json:"has_attachments,omitempty" jsonschema:"Filter on whether the transaction has attachments"`
	HasNotes          *bool    `json:"has_notes,omitempty" jsonschema:"Filter on whether the transaction has notes"`
	HiddenFromReports *bool    `json:"hidden_from_reports,omitempty" jsonschema:"Filter on whether the transaction is hidden from reports"`
	IsSplit           *bool    `json:"is_split,omitempty" jsonschema:"Filter on whether the transaction is split"`
	IsRecurring       *bool    `json:"is_recurring,omitempty" jsonschema:"Filter on whether the transaction is recurring"`
}

type TransactionIDInput struct {
	TransactionID string `json:"transaction_id" jsonschema:"The transaction ID"`
}

type CreateTransactionInput struct {
	AccountID    string  `json:"account_id" jsonschema:"The account ID to add the transaction to"`
	Amount       float64 `json:"amount" jsonschema:"Amount; negative for expenses and positive for income"`
	Description  string  `json:"description" jsonschema:"Description of the transaction"`
	Date         string  `json:"date" jsonschema:"Date in YYYY-MM-DD format"`
	CategoryID   string  `json:"category_id,omitempty" jsonschema:"Category ID to assign"`
	MerchantName string  `json:"merchant_name,omitempty" jsonschema:"Merchant name; defaults to the description"`
}

type UpdateTransactionInput struct {
	TransactionID string   `json:"transaction_id" jsonschema:"The transaction ID to update"`
	Amount        *float64 `json:"amount,omitempty" jsonschema:"New amount"`
	Description   *string  `json:"description,omitempty" jsonschema:"New merchant or description"`
	CategoryID    *string  `json:"category_id,omitempty" jsonschema:"New category ID"`
	Date          string   `json:"date,omitempty" jsonschema:"New date in YYYY-MM-DD format"`
	Notes         *string  `json:"notes,omitempty" jsonschema:"New notes"`
}

type SetTransactionCategoryInput struct {
	TransactionID string `json:"transaction_id" jsonschema:"The transaction ID to categorize"`
	CategoryID    string `json:"category_id" jsonschema:"The category ID to assign (use get_categories to find IDs)"`
	MarkReviewed  *bool  `json:"mark_reviewed,omitempty" jsonschema:"Also clear the needs review flag (default: true)"`
}

type UpdateTransactionNotesInput struct {
	TransactionID string `json:"transaction_id" jsonschema:"The transaction ID to update"`
	Notes         string `json:"notes" jsonschema:"The notes text"`
	ReceiptURL    string `json:"receipt_url,omitempty" jsonschema:"Receipt link prepended to the notes as [Receipt: URL]"`
}

type BulkCategorizeInput struct {
	TransactionIDs []string `json:"transaction_ids" jsonschema:"Transaction IDs to categorize"`
	CategoryID     string   `json:"category_id" jsonschema:"The category ID to apply to every transaction"`
	MarkReviewed   *bool    `json:"mark_reviewed,omitempty" jsonschema:"Also clear the needs review flag (default: true)"`
}

type bulkItemError struct {
	TransactionID string `json:"transaction_id"`
	Error         string `json:"error"`
}

type bulkView struct {
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Errors     []bulkItemError `json:"errors"`
}

type deleteView struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

type DateRangeInput struct {
	StartDate string `json:"start_date,omitempty" jsonschema:"Start date in YYYY-MM-DD format"`
	EndDate   string `json:"end_date,omitempty" jsonschema:"End date in YYYY-MM-DD format"`
}

type recurringStreamView struct {
	ID            string   `json:"id"`
	Frequency     string   `json:"frequency"`
	Amount        *float64 `json:"amount"`
	IsApproximate bool     `json:"is_approximate"`
	Merchant      *string  `json:"merchant"`
}

type recurringView struct {
	Date          string               `json:"date"`
	Amount        *float64             `json:"amount"`
	IsPast        bool                 `json:"is_past"`
	TransactionID *string              `json:"transaction_id"`
	Stream        *recurringStreamView `json:"stream"`
	Category      *string              `json:"category"`
	Account       *string              `json:"account"`
}

type NeedingReviewInput struct {
	NeedsReview       *bool  `json:"needs_review,omitempty" jsonschema:"Only include transactions flagged as needing review (default: true)"`
	Days              int    `json:"days,omitempty" jsonschema:"Only include transactions from the last N days"`
	UncategorizedOnly bool   `json:"uncategorized_only,omitempty" jsonschema:"Only include transactions without a category"`
	WithoutNotesOnly  bool   `json:"without_notes_only,omitempty" jsonschema:"Only include transactions without notes"`
	Limit             int    `json:"limit,omitempty" jsonschema:"Maximum number of transactions to return (default: 100)"`
	AccountID         string `json:"account_id,omitempty" jsonschema:"Only include transactions from this account"`
}

func (t *Toolset) defineTransactions() {
	define(t, "get_transactions",
		"Get transactions with optional date range and account filters.",
		t.getTransactions)

	define(t, "search_transactions",
		"Search transactions by text, dates, categories, accounts, tags and flags. Returns full transaction details.",
		t.searchTransactions)

	define(t, "get_transaction_details",
		"Get the full details of a single transaction, including splits and review status.",
		t.getTransactionDetails)

	define(t, "create_transaction",
		"Create a manual transaction.",
		t.createTransaction)

	define(t, "update_transaction",
		"Update the amount, description, category, date or notes of a transaction. Only the fields given are changed.",
		t.updateTransaction)

	define(t, "set_transaction_category",
		"Set the category of a transaction and, by default, mark it as reviewed.",
		t.setTransactionCategory)

	define(t, "update_transaction_notes",
		"Replace the notes of a transaction, optionally prefixed with a receipt link.",
		t.updateTransactionNotes)

	define(t, "mark_transaction_reviewed",
		"Mark a transaction as reviewed by clearing its needs review flag.",
		t.markTransactionReviewed)

	define(t, "bulk_categorize_transactions",
		"Apply the same category to many transactions. Each transaction succeeds or fails on its own; the result lists every failure.",
		t.bulkCategorize)

	define(t, "delete_transaction",
		"Delete a transaction. This cannot be undone.",
		t.deleteTransaction)

	define(t, "get_recurring_transactions",
		"Get upcoming recurring transactions (defaults to the current month).",
		t.getRecurringTransactions)

	define(t, "get_transactions_needing_review",
		"Find transactions to review: flagged for review, uncategorized or without notes, optionally limited to recent days or one account.",
		t.getTransactionsNeedingReview)
}

func (t *Toolset) getTransactions(ctx context.Context, in GetTransactionsInput) (any, error) {
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

	q := client.Transactions.Query().
		Limit(intOr(in.Limit, defaultTransactionLimit)).
		Offset(in.Offset)
	if start != nil {
		q = q.StartingFrom(*start)
	}
	if end != nil {
		q = q.Until(*end)
	}
	if in.AccountID != "" {
		q = q.WithAccounts(in.AccountID)
	}

	list, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*transactionSummaryView, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		v := &transactionSummaryView{
			ID:          tx.ID,
			Date:        formatDate(tx.Date),
			Amount:      tx.Amount,
			Description: tx.PlaidName,
			IsPending:   tx.Pending,
		}
		if tx.Category != nil {
			v.Category = &tx.Category.Name
		}
		if tx.Account != nil {
			v.Account = &tx.Account.DisplayName
		}
		if tx.Merchant != nil {
			v.Merchant = &tx.Merchant.Name
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Toolset) searchTransactions(ctx context.Context, in SearchTransactionsInput) (any, error) {
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

	q := client.Transactions.Query().
		Limit(intOr(in.Limit, defaultTransactionLimit)).
		Offset(in.Offset)
	if in.Search != "" {
		q = q.Search(in.Search)
	}
	if start != nil {
		q = q.StartingFrom(*start)
	}
	if end != nil {
		q = q.Until(*end)
	}
	if len(in.CategoryIDs) > 0 {
		q = q.WithCategories(in.CategoryIDs...)
	}
	if len(in.AccountIDs) > 0 {
		q = q.WithAccounts(in.AccountIDs...)
	}
	if len(in.TagIDs) > 0 {
		q = q.WithTags(in.TagIDs...)
	}
	if in.HasAttachments != nil {
		q = q.WithAttachments(*in.HasAttachments)
	}
	if in.HasNotes != nil {
		q = q.WithNotes(*in.HasNotes)
	}
	if in.HiddenFromReports != nil {
		q = q.HiddenFromReports(*in.HiddenFromReports)
	}
	if in.IsSplit != nil {
		q = q.Split(*in.IsSplit)
	}
	if in.IsRecurring != nil {
		q = q.Recurring(*in.IsRecurring)
	}

	list, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}
	return viewTransactions(list.Transactions, true), nil
}

func (t *Toolset) getTransactionDetails(ctx context.Context, in TransactionIDInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Transactions.Get(ctx, in.TransactionID)
}

func (t *Toolset) createTransaction(ctx context.Context, in CreateTransactionInput) (any, error) {
	if err := required("account_id", in.AccountID); err != nil {
		return nil, err
	}
	date, err := requireDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}

	merchant := in.MerchantName
	if merchant == "" {
		merchant = in.Description
	}
	tx, err := client.Transactions.Create(ctx, &monarch.CreateTransactionParams{
		Date:         date,
		AccountID:    in.AccountID,
		Amount:       in.Amount,
		MerchantName: merchant,
		CategoryID:   in.CategoryID,
		Notes:        in.Description,
	})
	if err != nil {
		return nil, err
	}
	return transactionOrAck(tx), nil
}

func (t *Toolset) updateTransaction(ctx context.Context, in UpdateTransactionInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	return t.update(ctx, in.TransactionID, &monarch.UpdateTransactionParams{
		Date:         date,
		Amount:       in.Amount,
		MerchantName: in.Description,
		CategoryID:   in.CategoryID,
		Notes:        in.Notes,
	})
}

func (t *Toolset) setTransactionCategory(ctx context.Context, in SetTransactionCategoryInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	if err := required("category_id", in.CategoryID); err != nil {
		return nil, err
	}
	return t.update(ctx, in.TransactionID, categorize(in.CategoryID, boolOr(in.MarkReviewed, true)))
}

func (t *Toolset) updateTransactionNotes(ctx context.Context, in UpdateTransactionNotesInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	notes := in.Notes
	if in.ReceiptURL != "" {
		notes = fmt.Sprintf("[Receipt: %s] %s", in.ReceiptURL, in.Notes)
	}
	return t.update(ctx, in.TransactionID, &monarch.UpdateTransactionParams{Notes: &notes})
}

func (t *Toolset) markTransactionReviewed(ctx context.Context, in TransactionIDInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	reviewed := false
	return t.update(ctx, in.TransactionID, &monarch.UpdateTransactionParams{NeedsReview: &reviewed})
}

func (t *Toolset) bulkCategorize(ctx context.Context, in BulkCategorizeInput) (any, error) {
	if err := required("category_id", in.CategoryID); err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}

	params := categorize(in.CategoryID, boolOr(in.MarkReviewed, true))
	res := t.deps.Bulk.Run(ctx, in.TransactionIDs, func(ctx context.Context, id string) error {
		_, err := client.Transactions.Update(ctx, id, params)
		return err
	})

	out := &bulkView{
		Total:      res.Total,
		Successful: res.Successful,
		Failed:     res.Failed,
		Errors:     make([]bulkItemError, 0, len(res.Errors)),
	}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, bulkItemError{TransactionID: e.ID, Error: e.Error})
	}
	return out, nil
}

func (t *Toolset) deleteTransaction(ctx context.Context, in TransactionIDInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	if err := client.Transactions.Delete(ctx, in.TransactionID); err != nil {
		return nil, err
	}
	return &deleteView{Success: true, TransactionID: in.TransactionID, Message: "Transaction deleted"}, nil
}

func (t *Toolset) getRecurringTransactions(ctx context.Context, in DateRangeInput) (any, error) {
	start, end := monarch.MonthBounds(t.deps.Clock.Now())
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
	items, err := client.Recurring.ListUpcoming(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]*recurringView, 0, len(items))
	for _, item := range items {
		v := &recurringView{
			Date:          item.Date,
			Amount:        item.Amount,
			IsPast:        item.IsPast,
			TransactionID: item.TransactionID,
		}
		if s := item.Stream; s != nil {
			v.Stream = &recurringStreamView{
				ID:            s.ID,
				Frequency:     s.Frequency,
				Amount:        s.Amount,
				IsApproximate: s.IsApproximate,
			}
			if s.Merchant != nil {
				v.Stream.Merchant = &s.Merchant.Name
			}
		}
		if item.Category != nil {
			v.Category = &item.Category.Name
		}
		if item.Account != nil {
			v.Account = &item.Account.DisplayName
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Toolset) getTransactionsNeedingReview(ctx context.Context, in NeedingReviewInput) (any, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}

	q := client.Transactions.Query().Limit(intOr(in.Limit, defaultTransactionLimit))
	if in.Days > 0 {
		now := t.deps.Clock.Now()
		q = q.Between(now.AddDate(0, 0, -in.Days), now)
	}
	if in.AccountID != "" {
		q = q.WithAccounts(in.AccountID)
	}
	if in.WithoutNotesOnly {
		q = q.WithNotes(false)
	}

	list, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}

	needsReview := boolOr(in.NeedsReview, true)
	out := make([]*transactionView, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		if needsReview && !tx.NeedsReview {
			continue
		}
		if in.UncategorizedOnly && tx.Category != nil && tx.Category.ID != "" {
			continue
		}
		out = append(out, viewTransaction(tx, false))
	}
	return out, nil
}

func (t *Toolset) update(ctx context.Context, transactionID string, params *monarch.UpdateTransactionParams) (any, error) {
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := client.Transactions.Update(ctx, transactionID, params)
	if err != nil {
		return nil, err
	}
	return transactionOrAck(tx), nil
}

func categorize(categoryID string, markReviewed bool) *monarch.UpdateTransactionParams {
	params := &monarch.UpdateTransactionParams{CategoryID: &categoryID}
	if markReviewed {
		reviewed := false
		params.NeedsReview = &reviewed
	}
	return params
}

func transactionOrAck(tx *monarch.Transaction) any {
	if tx == nil {
		return &mutationResult{Success: true}
	}
	return viewTransaction(tx, false)
}
