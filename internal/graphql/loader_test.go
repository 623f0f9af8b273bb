package graphql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CachesDocument(t *testing.T) {
	l := NewQueryLoader()

	q, err := l.Load("accounts/list.graphql")
	require.NoError(t, err)
	assert.Contains(t, q, "query GetAccounts")

	l.cache["accounts/list.graphql"] = "cached"
	q, err = l.Load("accounts/list.graphql")
	require.NoError(t, err)
	assert.Equal(t, "cached", q)
}

func TestLoad_Missing(t *testing.T) {
	_, err := NewQueryLoader().Load("nope/missing.graphql")
	assert.Error(t, err)
	assert.Panics(t, func() { NewQueryLoader().MustLoad("nope/missing.graphql") })
}

func TestEveryDocumentIsNamed(t *testing.T) {
	l := NewQueryLoader()
	paths, err := l.List()
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, p := range paths {
		q := l.MustLoad(p)
		assert.NotEmpty(t, OperationName(q), p)
	}
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"query GetAccounts { accounts { id } }", "GetAccounts"},
		{"\n  mutation Common_DeleteTransactionRule($id: ID!) { x }", "Common_DeleteTransactionRule"},
		{"query($id: ID!) { x }", ""},
		{"{ accounts { id } }", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OperationName(tt.query), tt.query)
	}
}
