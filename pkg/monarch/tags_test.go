package monarch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTagService_List(t *testing.T) {
	client, mockTransport := newTestClient(t)

	response := `{
		"householdTransactionTags": [
			{"id": "tag-1", "name": "Tax Deductible", "color": "#FF5733", "order": 1, "transactionCount": 12},
			{"id": "tag-2", "name": "Reimbursable", "color": "#33FF57", "order": 2}
		]
	}`
	mockTransport.On("Call", mock.Anything, "GetHouseholdTransactionTags", mock.Anything, mock.Anything, mock.Anything).
		Return(response, nil)

	tags, err := client.Tags.List(context.Background())

	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Tax Deductible", tags[0].Name)
	assert.Equal(t, 12, tags[0].TransactionCount)
	assert.Equal(t, 2, tags[1].Order)
	mockTransport.AssertExpectations(t)
}

func TestTagService_Create(t *testing.T) {
	client, mockTransport := newTestClient(t)
	mockTransport.On("Call", mock.Anything, "Common_CreateTransactionTag", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"createTransactionTag": {"tag": {"id": "new-tag", "name": "Travel", "color": "#19D2A5", "order": 5}, "errors": []}}`, nil)

	tag, err := client.Tags.Create(context.Background(), "Travel", "#19D2A5")

	require.NoError(t, err)
	assert.Equal(t, "new-tag", tag.ID)

	input := variablesOf(t, mockTransport, 0)["input"].(map[string]any)
	assert.Equal(t, "Travel", input["name"])
	assert.Equal(t, "#19D2A5", input["color"])
}

func TestTagService_CreateErrors(t *testing.T) {
	client, mockTransport := newTestClient(t)

	_, err := client.Tags.Create(context.Background(), "", "#fff")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	mockTransport.On("Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"createTransactionTag": {"tag": null, "errors": [{"message": "Tag already exists", "code": "DUPLICATE"}]}}`, nil)

	_, err = client.Tags.Create(context.Background(), "Travel", "#fff")
	require.Error(t, err)
	assert.Equal(t, "DUPLICATE: Tag already exists", err.Error())
}

func TestTagService_SetTransactionTags(t *testing.T) {
	client, mockTransport := newTestClient(t)
	mockTransport.On("Call", mock.Anything, "Web_SetTransactionTags", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"setTransactionTags": {"transaction": {"id": "tx-1", "tags": [{"id": "tag-1", "name": "A"}]}, "errors": []}}`, nil)

	tx, err := client.Tags.SetTransactionTags(context.Background(), "tx-1", "tag-1")

	require.NoError(t, err)
	require.Len(t, tx.Tags, 1)
	input := variablesOf(t, mockTransport, 0)["input"].(map[string]any)
	assert.Equal(t, []string{"tag-1"}, input["tagIds"])
}

func TestTagService_SetTransactionTagsClears(t *testing.T) {
	client, mockTransport := newTestClient(t)
	mockTransport.On("Call", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"setTransactionTags": {"transaction": {"id": "tx-1", "tags": []}, "errors": []}}`, nil)

	_, err := client.Tags.SetTransactionTags(context.Background(), "tx-1")
	require.NoError(t, err)

	input := variablesOf(t, mockTransport, 0)["input"].(map[string]any)
	assert.Equal(t, []string{}, input["tagIds"])
}
