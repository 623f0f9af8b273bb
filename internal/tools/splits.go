package tools

import (
	"context"
	"fmt"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
)

type SplitArg struct {
	Amount       float64 `json:"amount" jsonschema:"Amount of this part; negative for expenses"`
	CategoryID   string  `json:"category_id,omitempty" jsonschema:"Category ID for this part"`
	MerchantName string  `json:"merchant_name,omitempty" jsonschema:"Merchant name for this part"`
	Notes        string  `json:"notes,omitempty" jsonschema:"Notes for this part"`
}

type SplitTransactionInput struct {
	TransactionID string     `json:"transaction_id" jsonschema:"The transaction ID to split"`
	Splits        []SplitArg `json:"splits" jsonschema:"The parts; amounts must add up to the transaction amount. An empty list removes all splits"`
}

type splitResult struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Splits  *monarch.TransactionSplits `json:"splits"`
}

func (t *Toolset) defineSplits() {
	define(t, "get_transaction_splits",
		"Get the splits of a transaction; the list is empty when it is not split.",
		func(ctx context.Context, in TransactionIDInput) (any, error) {
			if err := required("transaction_id", in.TransactionID); err != nil {
				return nil, err
			}
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			return client.Transactions.GetSplits(ctx, in.TransactionID)
		})

	define(t, "split_transaction",
		"Split a transaction into parts with their own categories and merchants, or pass an empty list to remove the splits.",
		t.splitTransaction)
}

func (t *Toolset) splitTransaction(ctx context.Context, in SplitTransactionInput) (any, error) {
	if err := required("transaction_id", in.TransactionID); err != nil {
		return nil, err
	}
	client, err := t.client(ctx)
	if err != nil {
		return nil, err
	}

	splits := make([]*monarch.SplitInput, 0, len(in.Splits))
	for _, s := range in.Splits {
		splits = append(splits, &monarch.SplitInput{
			Amount:       s.Amount,
			CategoryID:   s.CategoryID,
			MerchantName: s.MerchantName,
			Notes:        s.Notes,
		})
	}
	res, err := client.Transactions.UpdateSplits(ctx, in.TransactionID, splits)
	if err != nil {
		return nil, err
	}

	msg := "Splits removed from transaction"
	if len(splits) > 0 {
		msg = fmt.Sprintf("Transaction split into %d parts", len(splits))
	}
	return &splitResult{Success: true, Message: msg, Splits: res}, nil
}
