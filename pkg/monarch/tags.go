package monarch

import (
	"context"

	"github.com/pkg/errors"
)

type tagService struct {
	client *Client
}

// List retrieves all household tags with their transaction counts
func (s *tagService) List(ctx context.Context) ([]*Tag, error) {
	query := s.client.loadQuery("tags/list.graphql")

	var result struct {
		HouseholdTransactionTags []*Tag `json:"householdTransactionTags"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get tags")
	}
	return result.HouseholdTransactionTags, nil
}

// Create creates a new tag
func (s *tagService) Create(ctx context.Context, name, color string) (*Tag, error) {
	if name == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "tag name is required")
	}
	query := s.client.loadQuery("tags/create.graphql")

	variables := map[string]any{
		"input": map[string]any{
			"name":  name,
			"color": color,
		},
	}

	var result struct {
		CreateTransactionTag struct {
			Tag    *Tag            `json:"tag"`
			Errors []*PayloadError `json:"errors"`
		} `json:"createTransactionTag"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to create tag")
	}
	if err := payloadError(result.CreateTransactionTag.Errors); err != nil {
		return nil, err
	}
	return result.CreateTransactionTag.Tag, nil
}

// SetTransactionTags replaces the tags on a transaction; no IDs clears them
func (s *tagService) SetTransactionTags(ctx context.Context, transactionID string, tagIDs ...string) (*Transaction, error) {
	if transactionID == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "transaction id is required")
	}
	if tagIDs == nil {
		tagIDs = []string{}
	}
	query := s.client.loadQuery("tags/set_transaction_tags.graphql")

	variables := map[string]any{
		"input": map[string]any{
			"transactionId": transactionID,
			"tagIds":        tagIDs,
		},
	}

	var result struct {
		SetTransactionTags struct {
			Transaction *Transaction    `json:"transaction"`
			Errors      []*PayloadError `json:"errors"`
		} `json:"setTransactionTags"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to set transaction tags")
	}
	if err := payloadError(result.SetTransactionTags.Errors); err != nil {
		return nil, err
	}
	return result.SetTransactionTags.Transaction, nil
}
