package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTransactionRules(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("GetTransactionRules", `{
		"transactionRules": [
			{
				"id": "r-1", "order": 0,
				"merchantCriteriaUseOriginalStatement": false,
				"merchantNameCriteria": [{"operator": "contains", "value": "amazon"}],
				"amountCriteria": null,
				"setCategoryAction": {"id": "cat-1", "name": "Shopping", "icon": "🛍"},
				"addTagsAction": [],
				"setHideFromReportsAction": null,
				"recentApplicationCount": 4,
				"lastAppliedAt": "2025-03-01T12:00:00Z"
			},
			{
				"id": "r-2", "order": 1,
				"amountCriteria": {"operator": "gt", "isExpense": true, "value": 500, "valueRange": null},
				"addTagsAction": [{"id": "tag-1", "name": "Big", "color": "#fff"}]
			}
		]
	}`)

	out := h.list(t, "get_transaction_rules", nil)

	require.Len(t, out, 2)
	assert.Equal(t, "r-1", out[0]["id"])
	assert.Equal(t, map[string]any{"id": "cat-1", "name": "Shopping"}, out[0]["set_category_action"])
	assert.Equal(t, []any{map[string]any{"operator": "contains", "value": "amazon"}}, out[0]["merchant_name_criteria"])
	assert.Nil(t, out[0]["add_tags_action"])
	assert.EqualValues(t, 4, out[0]["recent_application_count"])
	assert.Equal(t, []any{map[string]any{"id": "tag-1", "name": "Big"}}, out[1]["add_tags_action"])
	assert.Equal(t, "gt", out[1]["amount_criteria"].(map[string]any)["operator"])
}

func TestCreateTransactionRule(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Common_CreateTransactionRuleMutationV2", `{"createTransactionRuleV2": {"errors": null}}`)

	out := h.object(t, "create_transaction_rule", map[string]any{
		"merchant_criteria_operator": "contains",
		"merchant_criteria_value":    "amazon",
		"amount_operator":            "gt",
		"amount_value":               25,
		"set_category_id":            "cat-1",
		"add_tag_ids":                []string{"tag-1"},
		"hide_from_reports":          false,
	})

	assert.Equal(t, map[string]any{"success": true, "message": "Rule created successfully"}, out)

	input := h.transport.lastVars(t, "Common_CreateTransactionRuleMutationV2")["input"]
	assert.Equal(t, map[string]any{
		"applyToExistingTransactions": false,
		"merchantNameCriteria":        []any{map[string]any{"operator": "contains", "value": "amazon"}},
		"amountCriteria": map[string]any{
			"operator":   "gt",
			"isExpense":  true,
			"value":      25.0,
			"valueRange": nil,
		},
		"setCategoryAction":        "cat-1",
		"addTagsAction":            []any{"tag-1"},
		"setHideFromReportsAction": false,
	}, input)
}

func TestCreateTransactionRuleIgnoresHalfCriteria(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Common_CreateTransactionRuleMutationV2", `{"createTransactionRuleV2": {"errors": []}}`)

	h.object(t, "create_transaction_rule", map[string]any{
		"merchant_criteria_operator": "contains",
		"amount_value":               25,
		"apply_to_existing":          true,
	})

	input := h.transport.lastVars(t, "Common_CreateTransactionRuleMutationV2")["input"]
	assert.Equal(t, map[string]any{"applyToExistingTransactions": true}, input)
}

func TestUpdateTransactionRuleReportsPayloadErrors(t *testing.T) {
	h := newHarness(t)
	h.transport.respond("Common_UpdateTransactionRuleMutationV2", `{
		"updateTransactionRuleV2": {"errors": [{"message": "Invalid category", "code": "BAD_INPUT",
			"fieldErrors": [{"field": "setCategoryAction", "messages": ["not found"]}]}]}
	}`)

	out := h.object(t, "update_transaction_rule", map[string]any{"rule_id": "r-1", "set_category_id": "nope"})

	assert.Equal(t, false, out["success"])
	errs := out["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "Invalid category", errs[0].(map[string]any)["message"])

	input := h.transport.lastVars(t, "Common_UpdateTransactionRuleMutationV2")["input"].(map[string]any)
	assert.Equal(t, "r-1", input["id"])
	assert.Equal(t, "nope", input["setCategoryAction"])
}

func TestDeleteTransactionRule(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     map[string]any
	}{
		{
			name:     "deleted",
			response: `{"deleteTransactionRule": {"deleted": true, "errors": []}}`,
			want:     map[string]any{"success": true, "message": "Rule deleted successfully"},
		},
		{
			name:     "payload errors",
			response: `{"deleteTransactionRule": {"deleted": false, "errors": [{"message": "Not found", "code": "NOT_FOUND"}]}}`,
			want: map[string]any{"success": false, "errors": []any{
				map[string]any{"message": "Not found", "code": "NOT_FOUND"},
			}},
		},
		{
			name:     "unknown",
			response: `{"deleteTransactionRule": {"deleted": false, "errors": []}}`,
			want:     map[string]any{"success": false, "message": "Unknown error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.transport.respond("Common_DeleteTransactionRule", tt.response)

			out := h.object(t, "delete_transaction_rule", map[string]any{"rule_id": "r-1"})

			assert.Equal(t, tt.want, out)
			assert.Equal(t, "r-1", h.transport.lastVars(t, "Common_DeleteTransactionRule")["id"])
		})
	}
}
