package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTOTP_RFC6238Vector(t *testing.T) {
	// "12345678901234567890" in base32; RFC 6238 appendix B, T=59s.
	code, err := generateTOTP("GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", time.Unix(59, 0))
	require.NoError(t, err)
	assert.Equal(t, "287082", code)
}

func TestGenerateTOTP_InvalidSecret(t *testing.T) {
	_, err := generateTOTP("not base32!", time.Now())
	assert.Error(t, err)
}

func TestLogin_ReturnsSession(t *testing.T) {
	var got loginRequest
	var device string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, loginEndpoint, r.URL.Path)
		device = r.Header.Get("device-uuid")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"token":"tok-1"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, nil, nil)
	session, err := svc.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "a@b.c", session.Email)
	assert.Equal(t, svc.DeviceUUID(), device)
	assert.Equal(t, session.DeviceUUID, device)
	assert.Equal(t, "a@b.c", got.Username)
	assert.True(t, got.SupportsMFA)
	assert.Empty(t, got.TOTP)
}

func TestLogin_SendsTOTPFromSecret(t *testing.T) {
	var got loginRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"token":"tok-2"}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL, nil, nil)
	svc.now = func() time.Time { return time.Unix(59, 0) }

	_, err := svc.Login(context.Background(), Credentials{
		Email: "a@b.c", Password: "pw", TOTPSecret: "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
	})
	require.NoError(t, err)
	assert.Equal(t, "287082", got.TOTP)
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		creds  Credentials
		want   error
	}{
		{"mfa required by code", 200, `{"error_code":"MFA_REQUIRED"}`, Credentials{Email: "e", Password: "p"}, types.ErrMFARequired},
		{"mfa required by 403", 403, `{"detail":"Multi-Factor Auth Required"}`, Credentials{Email: "e", Password: "p"}, types.ErrMFARequired},
		{"bad mfa code", 403, ``, Credentials{Email: "e", Password: "p", MFACode: "000000"}, types.ErrLoginFailed},
		{"bad password", 401, ``, Credentials{Email: "e", Password: "p"}, types.ErrLoginFailed},
		{"rate limited", 429, ``, Credentials{Email: "e", Password: "p"}, types.ErrRateLimited},
		{"server error", 500, `oops`, Credentials{Email: "e", Password: "p"}, types.ErrLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewService(srv.URL, nil, nil).Login(context.Background(), tt.creds)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	_, err := NewService("http://unused", nil, nil).Login(context.Background(), Credentials{Email: "e"})
	assert.ErrorIs(t, err, types.ErrLoginFailed)
}
