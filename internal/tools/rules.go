package tools

import (
	"context"

	"github.com/eshaffer321/monarch-mcp/internal/graphql"
	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
)

// Rules have no typed service; they go through the client's generic call.
var ruleQueries = graphql.NewQueryLoader()

type ruleCriterion struct {
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type ruleAmountCriteria struct {
	Operator  string   `json:"operator"`
	IsExpense bool     `json:"isExpense"`
	Value     *float64 `json:"value"`
	ValueRange *struct {
		Lower *float64 `json:"lower"`
		Upper *float64 `json:"upper"`
	} `json:"valueRange"`
}

type ruleRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transactionRule struct {
	ID                                   string              `json:"id"`
	Order                                int                 `json:"order"`
	MerchantCriteriaUseOriginalStatement bool                `json:"merchantCriteriaUseOriginalStatement"`
	MerchantCriteria                     []*ruleCriterion    `json:"merchantCriteria"`
	OriginalStatementCriteria            []*ruleCriterion    `json:"originalStatementCriteria"`
	MerchantNameCriteria                 []*ruleCriterion    `json:"merchantNameCriteria"`
	AmountCriteria                       *ruleAmountCriteria `json:"amountCriteria"`
	CategoryIDs                          []string            `json:"categoryIds"`
	AccountIDs                           []string            `json:"accountIds"`
	SetMerchantAction                    *ruleRef            `json:"setMerchantAction"`
	SetCategoryAction                    *ruleRef            `json:"setCategoryAction"`
	AddTagsAction                        []*ruleRef          `json:"addTagsAction"`
	LinkGoalAction                       *ruleRef            `json:"linkGoalAction"`
	SetHideFromReportsAction             *bool               `json:"setHideFromReportsAction"`
	ReviewStatusAction                   *string             `json:"reviewStatusAction"`
	RecentApplicationCount               int                 `json:"recentApplicationCount"`
	LastAppliedAt                        *string             `json:"lastAppliedAt"`
}

type ruleView struct {
	ID                     string              `json:"id"`
	Order                  int                 `json:"order"`
	MerchantCriteria       []*ruleCriterion    `json:"merchant_criteria"`
	MerchantNameCriteria   []*ruleCriterion    `json:"merchant_name_criteria"`
	OriginalStatement      []*ruleCriterion    `json:"original_statement_criteria"`
	AmountCriteria         *ruleAmountCriteria `json:"amount_criteria"`
	CategoryIDs            []string            `json:"category_ids"`
	AccountIDs             []string            `json:"account_ids"`
	UseOriginalStatement   bool                `json:"use_original_statement"`
	SetCategoryAction      *ruleRef            `json:"set_category_action"`
	SetMerchantAction      *ruleRef            `json:"set_merchant_action"`
	AddTagsAction          []*ruleRef          `json:"add_tags_action"`
	LinkGoalAction         *ruleRef            `json:"link_goal_action"`
	HideFromReportsAction  *bool               `json:"hide_from_reports_action"`
	ReviewStatusAction     *string             `json:"review_status_action"`
	RecentApplicationCount int                 `json:"recent_application_count"`
	LastAppliedAt          *string             `json:"last_applied_at"`
}

// RuleArgs are the conditions and actions shared by create and update.
type RuleArgs struct {
	MerchantCriteriaOperator string   `json:"merchant_criteria_operator,omitempty" jsonschema:"How to match the merchant: eq or contains"`
	MerchantCriteriaValue    string   `json:"merchant_criteria_value,omitempty" jsonschema:"Merchant name or pattern to match"`
	AmountOperator           string   `json:"amount_operator,omitempty" jsonschema:"Amount comparison: gt, lt, eq or between"`
	AmountValue              *float64 `json:"amount_value,omitempty" jsonschema:"Amount threshold"`
	AmountIsExpense          *bool    `json:"amount_is_expense,omitempty" jsonschema:"Whether the amount is an expense (default: true)"`
	SetCategoryID            string   `json:"set_category_id,omitempty" jsonschema:"Category ID to assign (use get_categories for IDs)"`
	SetMerchantName          string   `json:"set_merchant_name,omitempty" jsonschema:"Merchant name to set on matching transactions"`
	AddTagIDs                []string `json:"add_tag_ids,omitempty" jsonschema:"Tag IDs to add (use get_tags for IDs)"`
	HideFromReports          *bool    `json:"hide_from_reports,omitempty" jsonschema:"Whether to hide matching transactions from reports"`
	ReviewStatus             string   `json:"review_status,omitempty" jsonschema:"Review status to set, e.g. needs_review"`
	AccountIDs               []string `json:"account_ids,omitempty" jsonschema:"Limit the rule to these account IDs"`
	ApplyToExisting          bool     `json:"apply_to_existing,omitempty" jsonschema:"Also apply the rule to existing transactions"`
}

type UpdateRuleInput struct {
	RuleID string `json:"rule_id" jsonschema:"The rule ID (use get_transaction_rules to find IDs)"`
	RuleArgs
}

type RuleIDInput struct {
	RuleID string `json:"rule_id" jsonschema:"The rule ID (use get_transaction_rules to find IDs)"`
}

// input builds the rule mutation input with only the parts that were given.
func (a *RuleArgs) input() map[string]any {
	in := map[string]any{"applyToExistingTransactions": a.ApplyToExisting}

	if a.MerchantCriteriaOperator != "" && a.MerchantCriteriaValue != "" {
		in["merchantNameCriteria"] = []map[string]any{{
			"operator": a.MerchantCriteriaOperator,
			"value":    a.MerchantCriteriaValue,
		}}
	}
	if a.AmountOperator != "" && a.AmountValue != nil {
		in["amountCriteria"] = map[string]any{
			"operator":   a.AmountOperator,
			"isExpense":  boolOr(a.AmountIsExpense, true),
			"value":      *a.AmountValue,
			"valueRange": nil,
		}
	}
	if len(a.AccountIDs) > 0 {
		in["accountIds"] = a.AccountIDs
	}
	if a.SetCategoryID != "" {
		in["setCategoryAction"] = a.SetCategoryID
	}
	if a.SetMerchantName != "" {
		in["setMerchantAction"] = a.SetMerchantName
	}
	if len(a.AddTagIDs) > 0 {
		in["addTagsAction"] = a.AddTagIDs
	}
	if a.HideFromReports != nil {
		in["setHideFromReportsAction"] = *a.HideFromReports
	}
	if a.ReviewStatus != "" {
		in["reviewStatusAction"] = a.ReviewStatus
	}
	return in
}

type rulePayload struct {
	Errors []*monarch.PayloadError `json:"errors"`
}

func (t *Toolset) defineRules() {
	define(t, "get_transaction_rules",
		"Get all transaction auto-categorization rules with their conditions and actions.",
		t.getTransactionRules)

	define(t, "create_transaction_rule",
		"Create a rule that categorizes, renames, tags or hides transactions matching merchant and amount conditions.",
		func(ctx context.Context, in RuleArgs) (any, error) {
			var result struct {
				Payload rulePayload `json:"createTransactionRuleV2"`
			}
			err := t.callRule(ctx, "rules/create.graphql", map[string]any{"input": in.input()}, &result)
			if err != nil {
				return nil, err
			}
			return ruleOutcome(result.Payload.Errors, "Rule created successfully"), nil
		})

	define(t, "update_transaction_rule",
		"Update the conditions or actions of a transaction rule.",
		func(ctx context.Context, in UpdateRuleInput) (any, error) {
			if err := required("rule_id", in.RuleID); err != nil {
				return nil, err
			}
			input := in.RuleArgs.input()
			input["id"] = in.RuleID

			var result struct {
				Payload rulePayload `json:"updateTransactionRuleV2"`
			}
			if err := t.callRule(ctx, "rules/update.graphql", map[string]any{"input": input}, &result); err != nil {
				return nil, err
			}
			return ruleOutcome(result.Payload.Errors, "Rule updated successfully"), nil
		})

	define(t, "delete_transaction_rule",
		"Delete a transaction rule.",
		func(ctx context.Context, in RuleIDInput) (any, error) {
			if err := required("rule_id", in.RuleID); err != nil {
				return nil, err
			}
			var result struct {
				Payload struct {
					Deleted bool                    `json:"deleted"`
					Errors  []*monarch.PayloadError `json:"errors"`
				} `json:"deleteTransactionRule"`
			}
			if err := t.callRule(ctx, "rules/delete.graphql", map[string]any{"id": in.RuleID}, &result); err != nil {
				return nil, err
			}
			switch {
			case result.Payload.Deleted:
				return &mutationResult{Success: true, Message: "Rule deleted successfully"}, nil
			case len(result.Payload.Errors) > 0:
				return &mutationResult{Success: false, Errors: result.Payload.Errors}, nil
			default:
				return &mutationResult{Success: false, Message: "Unknown error"}, nil
			}
		})
}

func (t *Toolset) getTransactionRules(ctx context.Context, _ struct{}) (any, error) {
	var result struct {
		TransactionRules []*transactionRule `json:"transactionRules"`
	}
	if err := t.callRule(ctx, "rules/list.graphql", map[string]any{}, &result); err != nil {
		return nil, err
	}

	out := make([]*ruleView, 0, len(result.TransactionRules))
	for _, r := range result.TransactionRules {
		v := &ruleView{
			ID:                     r.ID,
			Order:                  r.Order,
			MerchantCriteria:       r.MerchantCriteria,
			MerchantNameCriteria:   r.MerchantNameCriteria,
			OriginalStatement:      r.OriginalStatementCriteria,
			AmountCriteria:         r.AmountCriteria,
			CategoryIDs:            r.CategoryIDs,
			AccountIDs:             r.AccountIDs,
			UseOriginalStatement:   r.MerchantCriteriaUseOriginalStatement,
			SetCategoryAction:      r.SetCategoryAction,
			SetMerchantAction:      r.SetMerchantAction,
			LinkGoalAction:         r.LinkGoalAction,
			HideFromReportsAction:  r.SetHideFromReportsAction,
			ReviewStatusAction:     r.ReviewStatusAction,
			RecentApplicationCount: r.RecentApplicationCount,
			LastAppliedAt:          r.LastAppliedAt,
		}
		if len(r.AddTagsAction) > 0 {
			v.AddTagsAction = r.AddTagsAction
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Toolset) callRule(ctx context.Context, queryPath string, variables map[string]any, result any) error {
	client, err := t.client(ctx)
	if err != nil {
		return err
	}
	return client.Call(ctx, "", ruleQueries.MustLoad(queryPath), variables, result)
}

func ruleOutcome(errs []*monarch.PayloadError, message string) *mutationResult {
	if len(errs) > 0 {
		return &mutationResult{Success: false, Errors: errs}
	}
	return &mutationResult{Success: true, Message: message}
}
