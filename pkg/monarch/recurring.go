package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type recurringService struct {
	client *Client
}

// ListUpcoming retrieves recurring items expected between start and end
func (s *recurringService) ListUpcoming(ctx context.Context, startDate, endDate time.Time) ([]*RecurringTransactionItem, error) {
	query := s.client.loadQuery("recurring/upcoming.graphql")

	variables := map[string]any{
		"startDate": startDate.Format(DateLayout),
		"endDate":   endDate.Format(DateLayout),
		"filters":   map[string]any{},
	}

	var result struct {
		RecurringTransactionItems []*RecurringTransactionItem `json:"recurringTransactionItems"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get recurring transactions")
	}
	return result.RecurringTransactionItems, nil
}

// MonthBounds returns the first and last day of the month containing t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
