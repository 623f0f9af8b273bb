package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTags(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("GetHouseholdTransactionTags", `{
		"householdTransactionTags": [
			{"id": "tag-1", "name": "Tax", "color": "#ff0000", "order": 0, "transactionCount": 14},
			{"id": "tag-2", "name": "Reimbursable", "color": "#00ff00", "order": 1}
		]
	}`)

	out := h.list(t, "get_tags", nil)

	require.Len(t, out, 2)
	assert.Equal(t, map[string]any{
		"id":                "tag-1",
		"name":              "Tax",
		"color":             "#ff0000",
		"order":             0.0,
		"transaction_count": 14.0,
	}, out[0])
	assert.Equal(t, 0.0, out[1]["transaction_count"])
}

func TestCreateTagDefaultsColor(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Common_CreateTransactionTag", `{"createTransactionTag": {"tag": {"id": "tag-3", "name": "Travel", "color": "#19D2A5", "order": 2}, "errors": []}}`)

	out := h.object(t, "create_tag", map[string]any{"name": "Travel"})

	assert.Equal(t, "tag-3", out["id"])
	input := h.transport.lastVars(t, "Common_CreateTransactionTag")["input"]
	assert.Equal(t, map[string]any{"name": "Travel", "color": defaultTagColor}, input)
}

func TestCreateTagRequiresName(t *testing.T) {
	h := newHarness(t)

	out := h.object(t, "create_tag", map[string]any{"color": "#000000"})

	assertToolError(t, out, "create_tag", "name is required")
	assert.Zero(t, h.transport.count("Common_CreateTransactionTag"))
}

func TestSetTransactionTags(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Web_SetTransactionTags", `{
		"setTransactionTags": {"errors": [], "transaction": {"id": "tx-1", "date": "2025-03-02", "amount": -12.5,
			"tags": [{"id": "tag-1", "name": "Tax"}]}}
	}`)

	out := h.object(t, "set_transaction_tags", map[string]any{"transaction_id": "tx-1", "tag_ids": []string{"tag-1"}})

	assert.Equal(t, "tx-1", out["id"])
	input := h.transport.lastVars(t, "Web_SetTransactionTags")["input"]
	assert.Equal(t, map[string]any{"transactionId": "tx-1", "tagIds": []any{"tag-1"}}, input)
}

func TestSetTransactionTagsClearsWithEmptyList(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Web_SetTransactionTags", `{"setTransactionTags": {"errors": [], "transaction": null}}`)

	out := h.object(t, "set_transaction_tags", map[string]any{"transaction_id": "tx-1", "tag_ids": []string{}})

	assert.Equal(t, map[string]any{"success": true}, out)
	input := h.transport.lastVars(t, "Web_SetTransactionTags")["input"].(map[string]any)
	assert.Equal(t, []any{}, input["tagIds"])
}

func TestSplitTransaction(t *testing.T) {
	tests := []struct {
		name    string
		splits  []map[string]any
		message string
	}{
		{
			name: "two parts",
			splits: []map[string]any{
				{"amount": -30, "category_id": "cat-1"},
				{"amount": -20, "category_id": "cat-2", "notes": "gift"},
			},
			message: "Transaction split into 2 parts",
		},
		{
			name:    "remove",
			splits:  []map[string]any{},
			message: "Splits removed from transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.transport.respond("Common_SplitTransactionMutation", `{
				"updateTransactionSplit": {"errors": [], "transaction": {"id": "tx-1", "amount": -50, "splitTransactions": []}}
			}`)

			out := h.object(t, "split_transaction", map[string]any{"transaction_id": "tx-1", "splits": tt.splits})

			assert.Equal(t, true, out["success"])
			assert.Equal(t, tt.message, out["message"])
			assert.Equal(t, "tx-1", out["splits"].(map[string]any)["id"])

			input := h.transport.lastVars(t, "Common_SplitTransactionMutation")["input"].(map[string]any)
			assert.Len(t, input["splitData"], len(tt.splits))
		})
	}
}

func TestSplitTransactionSendsWireNames(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Common_SplitTransactionMutation", `{"updateTransactionSplit": {"errors": [], "transaction": {"id": "tx-1"}}}`)

	h.object(t, "split_transaction", map[string]any{
		"transaction_id": "tx-1",
		"splits":         []map[string]any{{"amount": -10, "category_id": "cat-1", "merchant_name": "Costco"}},
	})

	input := h.transport.lastVars(t, "Common_SplitTransactionMutation")["input"].(map[string]any)
	assert.Equal(t, []any{map[string]any{"amount": -10.0, "categoryId": "cat-1", "merchantName": "Costco"}}, input["splitData"])
}

func TestGetTransactionSplits(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("TransactionSplitQuery", `{"getTransaction": {"id": "tx-1", "amount": -50, "splitTransactions": null}}`)

	out := h.object(t, "get_transaction_splits", map[string]any{"transaction_id": "tx-1"})

	assert.Equal(t, []any{}, out["splitTransactions"])
}

func TestGetCategories(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("GetCategories", `{
		"categories": [
			{"id": "cat-1", "name": "Groceries", "icon": "🛒", "isSystemCategory": true,
				"group": {"id": "g-1", "name": "Food & Dining"}},
			{"id": "cat-2", "name": "Old", "isDisabled": true}
		]
	}`)

	out := h.list(t, "get_categories", nil)

	require.Len(t, out, 2)
	assert.Equal(t, map[string]any{
		"id":                 "cat-1",
		"name":               "Groceries",
		"icon":               "🛒",
		"group":              "Food & Dining",
		"group_id":           "g-1",
		"is_system_category": true,
		"is_disabled":        false,
	}, out[0])
	assert.Nil(t, out[1]["group"])
	assert.Equal(t, true, out[1]["is_disabled"])
}

func TestGetCategoryGroups(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("ManageGetCategoryGroups", `{
		"categoryGroups": [
			{"id": "g-1", "name": "Food & Dining", "type": "expense", "budgetVariability": "flexible",
				"groupLevelBudgetingEnabled": false,
				"categories": [{"id": "cat-1", "name": "Groceries", "icon": "🛒"}]},
			{"id": "g-9", "name": "Income", "type": "income"}
		]
	}`)

	out := h.list(t, "get_category_groups", nil)

	require.Len(t, out, 2)
	assert.Equal(t, "flexible", out[0]["budget_variability"])
	assert.Equal(t, []any{map[string]any{"id": "cat-1", "name": "Groceries", "icon": "🛒"}}, out[0]["categories"])
	assert.Equal(t, []any{}, out[1]["categories"])
}
