package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCall_SendsTokenHeaderAndDecodesData(t *testing.T) {
	var got struct {
		auth, device string
		body         request
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.auth = r.Header.Get("Authorization")
		got.device = r.Header.Get("device-uuid")
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		_, _ = w.Write([]byte(`{"data":{"me":{"id":"u1"}}}`))
	}))
	defer srv.Close()

	tr := NewGraphQLTransport(&Options{BaseURL: srv.URL})
	tr.SetSession(&types.Session{Token: "abc", DeviceUUID: "dev-1"})

	var out struct {
		Me struct {
			ID string `json:"id"`
		} `json:"me"`
	}
	err := tr.Call(context.Background(), "GetMe", "query GetMe { me { id } }", map[string]any{"x": 1}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Token abc", got.auth)
	assert.Equal(t, "dev-1", got.device)
	assert.Equal(t, "GetMe", got.body.OperationName)
	assert.EqualValues(t, 1, got.body.Variables["x"])
	assert.Equal(t, "u1", out.Me.ID)
}

func TestCall_WithoutTokenIsNotAuthenticated(t *testing.T) {
	tr := NewGraphQLTransport(nil)
	err := tr.Execute(context.Background(), "query { x }", nil, nil)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestCall_GraphQLErrorsAreReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad field"},{"message":"other"}]}`))
	}))
	defer srv.Close()

	tr := NewGraphQLTransport(&Options{BaseURL: srv.URL})
	tr.SetAuth("abc")

	err := tr.Execute(context.Background(), "query { x }", nil, nil)
	var gqlErr *types.GraphQLErrors
	require.ErrorAs(t, err, &gqlErr)
	assert.Len(t, gqlErr.Errors, 2)
	assert.Equal(t, "bad field (and 1 more)", err.Error())
}

func TestCall_NoRetryByDefault(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := NewGraphQLTransport(&Options{BaseURL: srv.URL, RetryConfig: &types.RetryConfig{}})
	tr.SetAuth("abc")

	err := tr.Execute(context.Background(), "query { x }", nil, nil)
	assert.ErrorIs(t, err, types.ErrServerError)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestSetAuth_KeepsDeviceUUID(t *testing.T) {
	tr := NewGraphQLTransport(nil)
	tr.SetSession(&types.Session{Token: "old", DeviceUUID: "dev"})
	tr.SetAuth("new")

	s := tr.Session()
	assert.Equal(t, "new", s.Token)
	assert.Equal(t, "dev", s.DeviceUUID)
}

func TestHandleHTTPError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", 401, ``, types.ErrNotAuthenticated},
		{"mfa", 401, `{"error_code":"MFA_REQUIRED"}`, types.ErrMFARequired},
		{"forbidden", 403, ``, types.ErrNotAuthenticated},
		{"not found", 404, ``, types.ErrNotFound},
		{"rate limited", 429, ``, types.ErrRateLimited},
		{"gateway timeout", 504, ``, types.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, handleHTTPError(tt.status, []byte(tt.body)), tt.want)
		})
	}
}

func TestHandleHTTPError_ServerErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains []string
	}{
		{"525 with html body", 525, `<html>SSL</html>`, []string{"525", "SSL Handshake Failed"}},
		{"500 with json message", 500, `{"error":"Internal","message":"Database connection failed"}`, []string{"Internal Server Error", "Database connection failed"}},
		{"502 empty body", 502, ``, []string{"502", "Bad Gateway"}},
		{"599 unknown", 599, ``, []string{"server error: 599"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := handleHTTPError(tt.status, []byte(tt.body))
			require.Error(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
			var apiErr *types.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "SERVER_ERROR", apiErr.Code)
		})
	}
}

func TestHandleHTTPError_BadRequestUsesDetail(t *testing.T) {
	err := handleHTTPError(400, []byte(`{"detail":"missing field"}`))
	assert.EqualError(t, err, "missing field")
}
