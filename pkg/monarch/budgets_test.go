package monarch

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBudgetService_List(t *testing.T) {
	client, mockTransport := newTestClient(t)

	response := `{
		"budgetData": {
			"monthlyAmountsByCategory": [
				{
					"category": {"id": "c1", "name": "Groceries", "group": {"id": "g1", "name": "Food"}},
					"monthlyAmounts": [
						{"month": "2024-01-01", "plannedCashFlowAmount": 500, "actualAmount": 420.5, "remainingAmount": 79.5}
					]
				}
			]
		},
		"categoryGroups": [{"id": "g1", "name": "Food", "type": "expense"}]
	}`
	mockTransport.On("Call", mock.Anything, "Common_GetJointPlanningData", mock.Anything, mock.Anything, mock.Anything).
		Return(response, nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	data, err := client.Budgets.List(context.Background(), start, start.AddDate(0, 1, -1))

	require.NoError(t, err)
	require.Len(t, data.MonthlyAmountsByCategory, 1)
	amounts := data.MonthlyAmountsByCategory[0].MonthlyAmounts
	require.Len(t, amounts, 1)
	assert.Equal(t, 500.0, *amounts[0].PlannedCashFlowAmount)
	assert.Nil(t, amounts[0].PreviousMonthRolloverAmount)
	require.Len(t, data.CategoryGroups, 1)

	vars := variablesOf(t, mockTransport, 0)
	assert.Equal(t, "2024-01-01", vars["startDate"])
	assert.Equal(t, "2024-01-31", vars["endDate"])
}

func TestBudgetService_ListEmpty(t *testing.T) {
	client, mockTransport := newTestClient(t)
	mockTransport.On("Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"budgetData": null, "categoryGroups": []}`, nil)

	data, err := client.Budgets.List(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, data.MonthlyAmountsByCategory)
}

func TestBudgetService_SetAmountCategory(t *testing.T) {
	client, mockTransport := newTestClient(t)
	mockTransport.On("Call", mock.Anything, "Common_UpdateBudgetItem", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"updateOrCreateBudgetItem": {"budgetItem": {"id": "b1", "budgetAmount": 250}}}`, nil)

	item, err := client.Budgets.SetAmount(context.Background(), &SetBudgetParams{
		Amount:        250,
		CategoryID:    "c1",
		StartDate:     time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		ApplyToFuture: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 250.0, item.BudgetAmount)

	input := variablesOf(t, mockTransport, 0)["input"].(map[string]any)
	assert.Equal(t, "2024-06-01", input["startDate"])
	assert.Equal(t, "month", input["timeframe"])
	assert.Equal(t, "c1", input["categoryId"])
	assert.Equal(t, true, input["applyToFuture"])
	assert.NotContains(t, input, "categoryGroupId")
}

func TestBudgetService_SetAmountDefaultsToCurrentMonth(t *testing.T) {
	client, mockTransport := newTestClient(t)
	client.clock = testclock.NewClock(time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC))
	mockTransport.On("Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"updateOrCreateBudgetItem": {"budgetItem": {"id": "b1", "budgetAmount": 10}}}`, nil)

	_, err := client.Budgets.SetAmount(context.Background(), &SetBudgetParams{Amount: 10, CategoryGroupID: "g1"})
	require.NoError(t, err)

	input := variablesOf(t, mockTransport, 0)["input"].(map[string]any)
	assert.Equal(t, "2025-11-01", input["startDate"])
	assert.Equal(t, "g1", input["categoryGroupId"])
}

func TestBudgetService_SetAmountRequiresExactlyOneTarget(t *testing.T) {
	client, mockTransport := newTestClient(t)

	tests := []*SetBudgetParams{
		nil,
		{Amount: 1},
		{Amount: 1, CategoryID: "c", CategoryGroupID: "g"},
	}
	for _, params := range tests {
		_, err := client.Budgets.SetAmount(context.Background(), params)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
	mockTransport.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
