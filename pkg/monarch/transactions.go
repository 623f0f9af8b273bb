package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type transactionService struct {
	client     *Client
	categories *transactionCategoryService
}

func newTransactionService(client *Client) *transactionService {
	return &transactionService{
		client:     client,
		categories: &transactionCategoryService{client: client},
	}
}

// CreateTransactionParams describes a manual transaction.
type CreateTransactionParams struct {
	Date          time.Time
	AccountID     string
	Amount        float64
	MerchantName  string
	CategoryID    string
	Notes         string
	UpdateBalance bool
}

// UpdateTransactionParams changes only the fields that are non-nil.
type UpdateTransactionParams struct {
	Date            *time.Time
	Amount          *float64
	MerchantName    *string
	CategoryID      *string
	Notes           *string
	HideFromReports *bool
	NeedsReview     *bool
	GoalID          *string
}

// input builds the mutation input with only the fields that were set.
func (p *UpdateTransactionParams) input(transactionID string) map[string]any {
	in := map[string]any{"id": transactionID}
	if p == nil {
		return in
	}
	if p.Date != nil {
		in["date"] = p.Date.Format(DateLayout)
	}
	if p.Amount != nil {
		in["amount"] = *p.Amount
	}
	if p.MerchantName != nil {
		in["name"] = *p.MerchantName
	}
	if p.CategoryID != nil {
		in["category"] = *p.CategoryID
	}
	if p.Notes != nil {
		in["notes"] = *p.Notes
	}
	if p.HideFromReports != nil {
		in["hideFromReports"] = *p.HideFromReports
	}
	if p.NeedsReview != nil {
		in["needsReview"] = *p.NeedsReview
	}
	if p.GoalID != nil {
		in["goalId"] = *p.GoalID
	}
	return in
}

// Query returns a transaction query builder
func (s *transactionService) Query() TransactionQueryBuilder {
	return &transactionQueryBuilder{client: s.client, limit: DefaultTransactionLimit}
}

// Get retrieves the full details of a transaction
func (s *transactionService) Get(ctx context.Context, transactionID string) (*TransactionDetails, error) {
	if transactionID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "transaction id is required")
	}
	query := s.client.loadQuery("transactions/get.graphql")

	variables := map[string]any{
		"id":             transactionID,
		"redirectPosted": true,
	}

	var result struct {
		GetTransaction *TransactionDetails `json:"getTransaction"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	if result.GetTransaction == nil {
		return nil, ErrNotFound
	}
	return result.GetTransaction, nil
}

// Create creates a manual transaction
func (s *transactionService) Create(ctx context.Context, params *CreateTransactionParams) (*Transaction, error) {
	if params == nil || params.AccountID == "" || params.Date.IsZero() {
		return nil, errors.Wrap(ErrInvalidRequest, "account id and date are required")
	}
	query := s.client.loadQuery("transactions/create.graphql")

	input := map[string]any{
		"date":                params.Date.Format(DateLayout),
		"accountId":           params.AccountID,
		"amount":              params.Amount,
		"merchantName":        params.MerchantName,
		"notes":               params.Notes,
		"shouldUpdateBalance": params.UpdateBalance,
	}
	if params.CategoryID != "" {
		input["categoryId"] = params.CategoryID
	}

	var result struct {
		CreateTransaction struct {
			Transaction *Transaction    `json:"transaction"`
			Errors      []*PayloadError `json:"errors"`
		} `json:"createTransaction"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"input": input}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}
	if err := payloadError(result.CreateTransaction.Errors); err != nil {
		return nil, err
	}
	return result.CreateTransaction.Transaction, nil
}

// Update updates an existing transaction
func (s *transactionService) Update(ctx context.Context, transactionID string, params *UpdateTransactionParams) (*Transaction, error) {
	if transactionID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "transaction id is required")
	}
	query := s.client.loadQuery("transactions/update.graphql")

	var result struct {
		UpdateTransaction struct {
			Transaction *Transaction    `json:"transaction"`
			Errors      []*PayloadError `json:"errors"`
		} `json:"updateTransaction"`
	}
	variables := map[string]any{"input": params.input(transactionID)}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update transaction")
	}
	if err := payloadError(result.UpdateTransaction.Errors); err != nil {
		return nil, err
	}
	return result.UpdateTransaction.Transaction, nil
}

// Delete deletes a transaction
func (s *transactionService) Delete(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return errors.Wrap(ErrInvalidRequest, "transaction id is required")
	}
	query := s.client.loadQuery("transactions/delete.graphql")

	var result struct {
		DeleteTransaction struct {
			Deleted bool            `json:"deleted"`
			Errors  []*PayloadError `json:"errors"`
		} `json:"deleteTransaction"`
	}
	variables := map[string]any{
		"input": map[string]any{"transactionId": transactionID},
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return errors.Wrap(err, "failed to delete transaction")
	}
	if err := payloadError(result.DeleteTransaction.Errors); err != nil {
		return err
	}
	if !result.DeleteTransaction.Deleted {
		return &Error{Code: "NOT_DELETED", Message: "transaction was not deleted"}
	}
	return nil
}

// GetSummary aggregates every transaction in the household
func (s *transactionService) GetSummary(ctx context.Context) (*TransactionSummary, error) {
	query := s.client.loadQuery("transactions/summary.graphql")

	var result struct {
		Aggregates []struct {
			Summary *TransactionSummary `json:"summary"`
		} `json:"aggregates"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"filters": map[string]any{}}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get transaction summary")
	}
	if len(result.Aggregates) == 0 || result.Aggregates[0].Summary == nil {
		return &TransactionSummary{}, nil
	}
	return result.Aggregates[0].Summary, nil
}

// GetSplits retrieves a transaction and its splits
func (s *transactionService) GetSplits(ctx context.Context, transactionID string) (*TransactionSplits, error) {
	if transactionID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "transaction id is required")
	}
	query := s.client.loadQuery("transactions/splits.graphql")

	var result struct {
		GetTransaction *TransactionSplits `json:"getTransaction"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"id": transactionID}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get transaction splits")
	}
	if result.GetTransaction == nil {
		return nil, ErrNotFound
	}
	if result.GetTransaction.SplitTransactions == nil {
		result.GetTransaction.SplitTransactions = []*TransactionSplit{}
	}
	return result.GetTransaction, nil
}

// UpdateSplits replaces the splits of a transaction
func (s *transactionService) UpdateSplits(ctx context.Context, transactionID string, splits []*SplitInput) (*TransactionSplits, error) {
	if transactionID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "transaction id is required")
	}
	if splits == nil {
		splits = []*SplitInput{}
	}
	query := s.client.loadQuery("transactions/update_splits.graphql")

	variables := map[string]any{
		"input": map[string]any{
			"transactionId": transactionID,
			"splitData":     splits,
		},
	}

	var result struct {
		UpdateTransactionSplit struct {
			Transaction *TransactionSplits `json:"transaction"`
			Errors      []*PayloadError    `json:"errors"`
		} `json:"updateTransactionSplit"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update transaction splits")
	}
	if err := payloadError(result.UpdateTransactionSplit.Errors); err != nil {
		return nil, err
	}
	return result.UpdateTransactionSplit.Transaction, nil
}

// Categories returns the category sub-service
func (s *transactionService) Categories() TransactionCategoryService {
	return s.categories
}

type transactionCategoryService struct {
	client *Client
}

// List retrieves all categories
func (s *transactionCategoryService) List(ctx context.Context) ([]*TransactionCategory, error) {
	query := s.client.loadQuery("categories/list.graphql")

	var result struct {
		Categories []*TransactionCategory `json:"categories"`
	}
	if err := s.client.executeGraphQL(ctx, query, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get categories")
	}
	return result.Categories, nil
}

// GetGroups retrieves category groups with their categories
func (s *transactionCategoryService) GetGroups(ctx context.Context) ([]*CategoryGroup, error) {
	query := s.client.loadQuery("categories/groups.graphql")

	var result struct {
		CategoryGroups []*CategoryGroup `json:"categoryGroups"`
	}
	if err := s.client.executeGraphQL(ctx, query, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get category groups")
	}
	return result.CategoryGroups, nil
}
