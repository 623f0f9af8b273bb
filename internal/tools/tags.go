package tools

import "context"

const defaultTagColor = "#19D2A5"

type tagView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Color            string `json:"color"`
	Order            int    `json:"order"`
	TransactionCount int    `json:"transaction_count"`
}

type SetTransactionTagsInput struct {
	TransactionID string   `json:"transaction_id" jsonschema:"The transaction ID to tag"`
	TagIDs        []string `json:"tag_ids" jsonschema:"Tag IDs to apply; replaces every existing tag. An empty list removes all tags"`
}

type CreateTagInput struct {
	Name  string `json:"name" jsonschema:"Name of the new tag"`
	Color string `json:"color,omitempty" jsonschema:"Hex color of the tag (default: #19D2A5)"`
}

func (t *Toolset) defineTags() {
	define(t, "get_tags",
		"Get all transaction tags with their colors and transaction counts.",
		func(ctx context.Context, _ struct{}) (any, error) {
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			tags, err := client.Tags.List(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]*tagView, 0, len(tags))
			for _, tag := range tags {
				out = append(out, &tagView{
					ID:               tag.ID,
					Name:             tag.Name,
					Color:            tag.Color,
					Order:            tag.Order,
					TransactionCount: tag.TransactionCount,
				})
			}
			return out, nil
		})

	define(t, "set_transaction_tags",
		"Set the tags of a transaction. This replaces all existing tags; include current tag IDs to keep them.",
		func(ctx context.Context, in SetTransactionTagsInput) (any, error) {
			if err := required("transaction_id", in.TransactionID); err != nil {
				return nil, err
			}
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			tx, err := client.Tags.SetTransactionTags(ctx, in.TransactionID, in.TagIDs...)
			if err != nil {
				return nil, err
			}
			return transactionOrAck(tx), nil
		})

	define(t, "create_tag",
		"Create a transaction tag.",
		func(ctx context.Context, in CreateTagInput) (any, error) {
			if err := required("name", in.Name); err != nil {
				return nil, err
			}
			color := in.Color
			if color == "" {
				color = defaultTagColor
			}
			client, err := t.client(ctx)
			if err != nil {
				return nil, err
			}
			return client.Tags.Create(ctx, in.Name, color)
		})
}
