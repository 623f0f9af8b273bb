// Package auth exchanges account credentials for an API token.
package auth

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const loginEndpoint = "/auth/login/"

// Credentials identify an account. At most one of MFACode and TOTPSecret
// is normally set; MFACode wins when both are.
type Credentials struct {
	Email      string
	Password   string
	MFACode    string
	TOTPSecret string
}

// Service performs password logins against the Monarch API.
type Service struct {
	baseURL    string
	httpClient *http.Client
	deviceUUID string
	logger     types.Logger
	now        func() time.Time
}

// NewService creates a login service. Each service presents one device UUID
// for its lifetime.
func NewService(baseURL string, httpClient *http.Client, logger types.Logger) *Service {
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}
	return &Service{
		baseURL:    baseURL,
		httpClient: httpClient,
		deviceUUID: uuid.NewString(),
		logger:     logger,
		now:        time.Now,
	}
}

// DeviceUUID returns the device identifier sent with every login.
func (s *Service) DeviceUUID() string { return s.deviceUUID }

// Login exchanges creds for a session. When the account requires MFA and
// no code or secret is present, ErrMFARequired is returned.
func (s *Service) Login(ctx context.Context, creds Credentials) (*types.Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, errors.Wrap(types.ErrLoginFailed, "email and password are required")
	}

	code := creds.MFACode
	if code == "" && creds.TOTPSecret != "" {
		var err error
		code, err = generateTOTP(creds.TOTPSecret, s.now())
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate TOTP code")
		}
	}

	token, err := s.post(ctx, creds.Email, creds.Password, code)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("login successful", "email", creds.Email, "mfa", code != "")
	}
	return &types.Session{Token: token, Email: creds.Email, DeviceUUID: s.deviceUUID}, nil
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	SupportsMFA   bool   `json:"supports_mfa"`
	TrustedDevice bool   `json:"trusted_device"`
	TOTP          string `json:"totp,omitempty"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
}

func (s *Service) post(ctx context.Context, email, password, code string) (string, error) {
	body, err := json.Marshal(&loginRequest{
		Username:    email,
		Password:    password,
		SupportsMFA: true,
		TOTP:        code,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to create login request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Platform", "web")
	req.Header.Set("User-Agent", types.UserAgent)
	req.Header.Set("Origin", types.DefaultOrigin)
	req.Header.Set("device-uuid", s.deviceUUID)

	if s.logger != nil {
		s.logger.Debug("login request", "email", email, "mfa", code != "")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "login request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read login response")
	}

	var lr loginResponse
	// Error pages are not always JSON; the status code still decides.
	_ = json.Unmarshal(respBody, &lr)

	if lr.ErrorCode == "MFA_REQUIRED" || (resp.StatusCode == http.StatusForbidden && code == "") {
		return "", types.ErrMFARequired
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		lr.ErrorCode == "INVALID_CREDENTIALS":
		return "", types.ErrLoginFailed
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", types.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return "", &types.Error{
			Code:       "LOGIN_FAILED",
			Message:    fmt.Sprintf("login failed with status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        types.ErrLoginFailed,
		}
	case lr.ErrorCode != "":
		msg := lr.Message
		if msg == "" {
			msg = lr.Detail
		}
		return "", &types.Error{Code: lr.ErrorCode, Message: msg, Err: types.ErrLoginFailed}
	case lr.Token == "":
		return "", errors.New("no token in login response")
	}
	return lr.Token, nil
}

// generateTOTP computes the RFC 6238 six digit code for secret at t.
func generateTOTP(secret string, t time.Time) (string, error) {
	secret = strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	secret = strings.TrimRight(secret, "=")

	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode TOTP secret")
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()/30))

	h := hmac.New(sha1.New, key)
	h.Write(buf)
	sum := h.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff
	return fmt.Sprintf("%06d", code%1000000), nil
}
