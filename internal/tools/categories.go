package tools

import "context"

type categoryView struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	Group            *string `json:"group"`
	GroupID          *string `json:"group_id"`
	IsSystemCategory bool    `json:"is_system_category"`
	IsDisabled       bool    `json:"is_disabled"`
}

type categoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type categoryGroupView struct {
	ID                         string        `json:"id"`
	Name                       string        `json:"name"`
	Type                       string        `json:"type"`
	BudgetVariability          string        `json:"budget_variability"`
	GroupLevelBudgetingEnabled bool          `json:"group_level_budgeting_enabled"`
	Categories                 []categoryRef `json:"categories"`
}

func (t *Toolset) defineCategories() {
	define(t, "get_categories",
		"Get all transaction categories with their groups. Use the IDs when categorizing transactions.",
		func(ctx context.Context, _ struct{}) (any, error) {
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			categories, err := client.Transactions.Categories().List(ctx)
			if err != nil {
				return nil, err
			}

			out := make([]*categoryView, 0, len(categories))
			for _, c := range categories {
				v := &categoryView{
					ID:               c.ID,
					Name:             c.Name,
					Icon:             c.Icon,
					IsSystemCategory: c.IsSystemCategory,
					IsDisabled:       c.IsDisabled,
				}
				if c.Group != nil {
					v.Group = &c.Group.Name
					v.GroupID = &c.Group.ID
				}
				out = append(out, v)
			}
			return out, nil
		})

	define(t, "get_category_groups",
		"Get all category groups, such as Income or Expenses, with their categories.",
		func(ctx context.Context, _ struct{}) (any, error) {
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			groups, err := client.Transactions.Categories().GetGroups(ctx)
			if err != nil {
				return nil, err
			}

			out := make([]*categoryGroupView, 0, len(groups))
			for _, g := range groups {
				v := &categoryGroupView{
					ID:                         g.ID,
					Name:                       g.Name,
					Type:                       g.Type,
					BudgetVariability:          g.BudgetVariability,
					GroupLevelBudgetingEnabled: g.GroupLevelBudgetingEnabled,
					Categories:                 make([]categoryRef, 0, len(g.Categories)),
				}
				for _, c := range g.Categories {
					v.Categories = append(v.Categories, categoryRef{ID: c.ID, Name: c.Name, Icon: c.Icon})
				}
				out = append(out, v)
			}
			return out, nil
		})
}
