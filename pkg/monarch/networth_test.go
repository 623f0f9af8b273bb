package monarch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNetWorthService_AggregateSnapshots(t *testing.T) {
	client, mockTransport := newTestClient(t)
	mockTransport.On("Call", mock.Anything, "GetAggregateSnapshots", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"aggregateSnapshots": [{"date": "2024-01-01", "balance": 1000}, {"date": "2024-01-02", "balance": null}]}`, nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snaps, err := client.NetWorth.AggregateSnapshots(context.Background(), &AggregateSnapshotParams{
		StartDate:   &start,
		AccountType: "brokerage",
	})

	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 1000.0, *snaps[0].Balance)
	assert.Nil(t, snaps[1].Balance)

	filters := variablesOf(t, mockTransport, 0)["filters"].(map[string]any)
	assert.Equal(t, map[string]any{"startDate": "2024-01-01", "accountType": "brokerage"}, filters)
}

func TestNetWorthService_SnapshotsByAccountType(t *testing.T) {
	client, mockTransport := newTestClient(t)

	response := `{
		"snapshotsByAccountType": [
			{"accountType": "depository", "month": "2024-01-01", "balance": 100},
			{"accountType": "credit", "month": "2024-01-01", "balance": -50},
			{"accountType": "depository", "month": "2024-02-01", "balance": 150}
		],
		"accountTypes": [
			{"name": "depository", "group": "asset"},
			{"name": "credit", "group": "liability"}
		]
	}`
	mockTransport.On("Call", mock.Anything, "GetSnapshotsByAccountType", mock.Anything, mock.Anything, mock.Anything).
		Return(response, nil)

	history, err := client.NetWorth.SnapshotsByAccountType(context.Background(), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "month")

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "depository", history[0].AccountType)
	assert.Equal(t, "asset", history[0].Group)
	assert.Len(t, history[0].Snapshots, 2)
	assert.Equal(t, "credit", history[1].AccountType)
	assert.Equal(t, "liability", history[1].Group)

	vars := variablesOf(t, mockTransport, 0)
	assert.Equal(t, "month", vars["timeframe"])
	assert.Equal(t, "2024-01-01", vars["startDate"])
}

func TestNetWorthService_SnapshotsByAccountTypeTimeframe(t *testing.T) {
	client, mockTransport := newTestClient(t)

	_, err := client.NetWorth.SnapshotsByAccountType(context.Background(), time.Now(), "week")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	mockTransport.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
