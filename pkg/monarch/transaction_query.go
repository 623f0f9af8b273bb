package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// DefaultTransactionLimit is the page size when Limit is never called.
const DefaultTransactionLimit = 100

// TransactionFilters holds the filters of a transaction query. Nil and
// empty fields are left out of the request.
type TransactionFilters struct {
	Search          string
	StartDate       *time.Time
	EndDate         *time.Time
	AccountIDs      []string
	CategoryIDs     []string
	TagIDs          []string
	HasAttachments  *bool
	HasNotes        *bool
	HideFromReports *bool
	IsSplit         *bool
	IsRecurring     *bool
}

func (f TransactionFilters) variables() map[string]any {
	out := map[string]any{}
	if f.Search != "" {
		out["search"] = f.Search
	}
	if f.StartDate != nil {
		out["startDate"] = f.StartDate.Format(DateLayout)
	}
	if f.EndDate != nil {
		out["endDate"] = f.EndDate.Format(DateLayout)
	}
	if len(f.AccountIDs) > 0 {
		out["accounts"] = f.AccountIDs
	}
	if len(f.CategoryIDs) > 0 {
		out["categories"] = f.CategoryIDs
	}
	if len(f.TagIDs) > 0 {
		out["tags"] = f.TagIDs
	}
	setBool := func(key string, v *bool) {
		if v != nil {
			out[key] = *v
		}
	}
	setBool("hasAttachments", f.HasAttachments)
	setBool("hasNotes", f.HasNotes)
	setBool("hideFromReports", f.HideFromReports)
	setBool("isSplit", f.IsSplit)
	setBool("isRecurring", f.IsRecurring)
	return out
}

type transactionQueryBuilder struct {
	client  *Client
	filters TransactionFilters
	limit   int
	offset  int
}

func (b *transactionQueryBuilder) Between(start, end time.Time) TransactionQueryBuilder {
	return b.StartingFrom(start).Until(end)
}

func (b *transactionQueryBuilder) StartingFrom(start time.Time) TransactionQueryBuilder {
	b.filters.StartDate = &start
	return b
}

func (b *transactionQueryBuilder) Until(end time.Time) TransactionQueryBuilder {
	b.filters.EndDate = &end
	return b
}

func (b *transactionQueryBuilder) WithAccounts(accountIDs ...string) TransactionQueryBuilder {
	b.filters.AccountIDs = append(b.filters.AccountIDs, accountIDs...)
	return b
}

func (b *transactionQueryBuilder) WithCategories(categoryIDs ...string) TransactionQueryBuilder {
	b.filters.CategoryIDs = append(b.filters.CategoryIDs, categoryIDs...)
	return b
}

func (b *transactionQueryBuilder) WithTags(tagIDs ...string) TransactionQueryBuilder {
	b.filters.TagIDs = append(b.filters.TagIDs, tagIDs...)
	return b
}

func (b *transactionQueryBuilder) Search(query string) TransactionQueryBuilder {
	b.filters.Search = query
	return b
}

func (b *transactionQueryBuilder) WithAttachments(has bool) TransactionQueryBuilder {
	b.filters.HasAttachments = &has
	return b
}

func (b *transactionQueryBuilder) WithNotes(has bool) TransactionQueryBuilder {
	b.filters.HasNotes = &has
	return b
}

func (b *transactionQueryBuilder) HiddenFromReports(hidden bool) TransactionQueryBuilder {
	b.filters.HideFromReports = &hidden
	return b
}

func (b *transactionQueryBuilder) Split(split bool) TransactionQueryBuilder {
	b.filters.IsSplit = &split
	return b
}

func (b *transactionQueryBuilder) Recurring(recurring bool) TransactionQueryBuilder {
	b.filters.IsRecurring = &recurring
	return b
}

func (b *transactionQueryBuilder) Limit(limit int) TransactionQueryBuilder {
	b.limit = limit
	return b
}

func (b *transactionQueryBuilder) Offset(offset int) TransactionQueryBuilder {
	b.offset = offset
	return b
}

func (b *transactionQueryBuilder) Filters() TransactionFilters {
	f := b.filters
	f.AccountIDs = append([]string(nil), f.AccountIDs...)
	f.CategoryIDs = append([]string(nil), f.CategoryIDs...)
	f.TagIDs = append([]string(nil), f.TagIDs...)
	return f
}

// Execute runs the query
func (b *transactionQueryBuilder) Execute(ctx context.Context) (*TransactionList, error) {
	query := b.client.loadQuery("transactions/list.graphql")

	variables := map[string]any{
		"offset":  b.offset,
		"limit":   b.limit,
		"filters": b.filters.variables(),
		"orderBy": "date",
	}

	var result struct {
		AllTransactions struct {
			TotalCount int            `json:"totalCount"`
			Results    []*Transaction `json:"results"`
		} `json:"allTransactions"`
	}
	if err := b.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get transactions")
	}

	txns := result.AllTransactions.Results
	if txns == nil {
		txns = []*Transaction{}
	}
	next := b.offset + len(txns)
	return &TransactionList{
		Transactions: txns,
		TotalCount:   result.AllTransactions.TotalCount,
		HasMore:      next < result.AllTransactions.TotalCount,
		NextOffset:   next,
	}, nil
}
