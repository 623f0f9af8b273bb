// Package transport carries GraphQL operations to the Monarch API over HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/eshaffer321/monarch-mcp/internal/types"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	graphQLEndpoint = "/graphql"

	authHeaderKey = "Authorization"
	contentType   = "application/json"
)

// Options configures a GraphQLTransport.
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
}

// GraphQLTransport posts operations to /graphql with a token header.
type GraphQLTransport struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	logger      types.Logger
	hooks       *types.Hooks

	mu      sync.RWMutex
	session *types.Session
}

type request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage       `json:"data,omitempty"`
	Errors []*types.GraphQLError `json:"errors,omitempty"`
}

// NewGraphQLTransport creates a transport. Retries are only enabled when
// opts.RetryConfig asks for at least one.
func NewGraphQLTransport(opts *Options) *GraphQLTransport {
	if opts == nil {
		opts = &Options{}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = types.DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: types.DefaultTimeout}
	}

	var retryClient *retryablehttp.Client
	if rc := opts.RetryConfig; rc != nil && rc.MaxRetries > 0 {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = httpClient
		retryClient.RetryMax = rc.MaxRetries
		if rc.RetryWait > 0 {
			retryClient.RetryWaitMin = rc.RetryWait
		}
		if rc.MaxWait > 0 {
			retryClient.RetryWaitMax = rc.MaxWait
		}
		// retryablehttp logs to stderr through a std logger unless told otherwise.
		retryClient.Logger = nil
		if opts.Logger != nil {
			retryClient.Logger = opts.Logger
		}
	}

	headers := map[string]string{
		"Accept":          contentType,
		"Content-Type":    contentType,
		"Client-Platform": "web",
		"User-Agent":      types.UserAgent,
		"Origin":          types.DefaultOrigin,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &GraphQLTransport{
		baseURL:     baseURL,
		httpClient:  httpClient,
		retryClient: retryClient,
		headers:     headers,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// Execute runs query and decodes the "data" member into result.
func (t *GraphQLTransport) Execute(ctx context.Context, query string, variables map[string]any, result any) error {
	return t.Call(ctx, "", query, variables, result)
}

// Call runs a named operation and decodes the "data" member into result.
func (t *GraphQLTransport) Call(ctx context.Context, operation, query string, variables map[string]any, result any) error {
	session := t.Session()
	if session == nil || session.Token == "" {
		return types.ErrNotAuthenticated
	}

	body, err := json.Marshal(&request{OperationName: operation, Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+graphQLEndpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(authHeaderKey, "Token "+session.Token)
	if session.DeviceUUID != "" {
		httpReq.Header.Set("device-uuid", session.DeviceUUID)
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}
	if t.logger != nil {
		t.logger.Debug("graphql request", "operation", operation, "query", truncateQuery(query))
	}

	start := time.Now()
	resp, err := t.do(httpReq)
	duration := time.Since(start)
	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if t.logger != nil {
		t.logger.Debug("graphql response", "operation", operation, "status", resp.StatusCode, "duration", duration, "size", len(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		return handleHTTPError(resp.StatusCode, respBody)
	}

	var gqlResp response
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	if len(gqlResp.Errors) > 0 {
		return &types.GraphQLErrors{Errors: gqlResp.Errors}
	}
	if result != nil && len(gqlResp.Data) > 0 {
		if err := json.Unmarshal(gqlResp.Data, result); err != nil {
			return errors.Wrap(err, "failed to unmarshal result")
		}
	}
	return nil
}

// SetAuth replaces the token, keeping any device UUID already set.
func (t *GraphQLTransport) SetAuth(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := &types.Session{Token: token}
	if t.session != nil {
		next.Email = t.session.Email
		next.DeviceUUID = t.session.DeviceUUID
	}
	t.session = next
}

// SetSession replaces the whole session.
func (t *GraphQLTransport) SetSession(session *types.Session) {
	t.mu.Lock()
	t.session = session
	t.mu.Unlock()
}

// Session returns the current session; callers must not mutate it.
func (t *GraphQLTransport) Session() *types.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session
}

func (t *GraphQLTransport) do(req *http.Request) (*http.Response, error) {
	if t.retryClient == nil {
		return t.httpClient.Do(req)
	}
	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, err
	}
	return t.retryClient.Do(retryReq)
}

func handleHTTPError(statusCode int, body []byte) error {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Code    string `json:"error_code"`
	}
	_ = json.Unmarshal(body, &errResp)
	msg := firstNonEmpty(errResp.Message, errResp.Detail, errResp.Error)

	switch statusCode {
	case http.StatusUnauthorized:
		if errResp.Code == "MFA_REQUIRED" {
			return types.ErrMFARequired
		}
		return types.ErrNotAuthenticated
	case http.StatusForbidden:
		return types.ErrNotAuthenticated
	case http.StatusNotFound:
		return types.ErrNotFound
	case http.StatusTooManyRequests:
		return types.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return types.ErrTimeout
	case http.StatusBadRequest:
		return &types.Error{Code: "BAD_REQUEST", Message: msg, StatusCode: statusCode}
	}

	if statusCode >= 500 {
		text := fmt.Sprintf("server error: %d", statusCode)
		if desc := httpStatusDescription(statusCode); desc != "" {
			text = fmt.Sprintf("server error: %d (%s)", statusCode, desc)
		}
		if msg != "" {
			text = text + ": " + msg
		}
		return &types.Error{Code: "SERVER_ERROR", Message: text, StatusCode: statusCode, Err: types.ErrServerError}
	}
	return &types.Error{Code: "HTTP_ERROR", Message: fmt.Sprintf("HTTP error: %d", statusCode), StatusCode: statusCode}
}

// Cloudflare fronts the API, so the 52x codes show up in practice.
var statusDescriptions = map[int]string{
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
	520: "Web Server Error",
	521: "Web Server Is Down",
	522: "Connection Timed Out",
	523: "Origin Is Unreachable",
	524: "A Timeout Occurred",
	525: "SSL Handshake Failed",
	526: "Invalid SSL Certificate",
	530: "Origin DNS Error",
}

func httpStatusDescription(statusCode int) string {
	return statusDescriptions[statusCode]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateQuery(query string) string {
	const maxLen = 100
	if len(query) <= maxLen {
		return query
	}
	return query[:maxLen] + "..."
}
