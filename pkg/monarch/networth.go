package monarch

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// AggregateSnapshotParams filters net worth history. Nil dates and an empty
// account type are left to the API defaults.
type AggregateSnapshotParams struct {
	StartDate   *time.Time
	EndDate     *time.Time
	AccountType string
}

type netWorthService struct {
	client *Client
}

// AggregateSnapshots retrieves daily household net worth, oldest first
func (s *netWorthService) AggregateSnapshots(ctx context.Context, params *AggregateSnapshotParams) ([]*AggregateSnapshot, error) {
	query := s.client.loadQuery("networth/aggregate_snapshots.graphql")

	filters := map[string]any{}
	if params != nil {
		if params.StartDate != nil {
			filters["startDate"] = params.StartDate.Format(DateLayout)
		}
		if params.EndDate != nil {
			filters["endDate"] = params.EndDate.Format(DateLayout)
		}
		if params.AccountType != "" {
			filters["accountType"] = params.AccountType
		}
	}

	var result struct {
		AggregateSnapshots []*AggregateSnapshot `json:"aggregateSnapshots"`
	}
	if err := s.client.executeGraphQL(ctx, query, map[string]any{"filters": filters}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get net worth snapshots")
	}
	return result.AggregateSnapshots, nil
}

// SnapshotsByAccountType retrieves balances per account type, grouped in the
// order the API first returns each type
func (s *netWorthService) SnapshotsByAccountType(ctx context.Context, startDate time.Time, timeframe string) ([]*AccountTypeHistory, error) {
	if timeframe != "month" && timeframe != "year" {
		return nil, errors.Wrap(ErrInvalidRequest, "timeframe must be 'month' or 'year'")
	}
	query := s.client.loadQuery("networth/snapshots_by_type.graphql")

	variables := map[string]any{
		"startDate": startDate.Format(DateLayout),
		"timeframe": timeframe,
	}

	var result struct {
		SnapshotsByAccountType []*AccountTypeSnapshot `json:"snapshotsByAccountType"`
		AccountTypes           []struct {
			Name  string `json:"name"`
			Group string `json:"group"`
		} `json:"accountTypes"`
	}
	if err := s.client.executeGraphQL(ctx, query, variables, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get snapshots by account type")
	}

	groups := make(map[string]string, len(result.AccountTypes))
	for _, at := range result.AccountTypes {
		groups[at.Name] = at.Group
	}

	var out []*AccountTypeHistory
	index := map[string]*AccountTypeHistory{}
	for _, snap := range result.SnapshotsByAccountType {
		h, ok := index[snap.AccountType]
		if !ok {
			h = &AccountTypeHistory{AccountType: snap.AccountType, Group: groups[snap.AccountType]}
			index[snap.AccountType] = h
			out = append(out, h)
		}
		h.Snapshots = append(h.Snapshots, snap)
	}
	return out, nil
}
