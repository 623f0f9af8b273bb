package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/eshaffer321/monarch-mcp/internal/capture"
	"github.com/eshaffer321/monarch-mcp/internal/provider"
	"github.com/eshaffer321/monarch-mcp/internal/session"
	"github.com/pkg/errors"
)

const setupInstructions = `Monarch Money - Authentication Options

Option 1: Browser login (recommended)
   Call the 'authenticate_with_google' tool to open a browser window
   and sign in with Google or email/password.

Option 2: Terminal
   Run: monarch-mcp login
   or:  monarch-mcp login --password  (uses MONARCH_EMAIL / MONARCH_PASSWORD)

Option 3: Environment
   Set MONARCH_EMAIL and MONARCH_PASSWORD (and MONARCH_MFA_SECRET when
   the account uses an authenticator app) before starting the server.

The token is stored in the system keyring and persists across restarts.`

type authResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (t *Toolset) defineAuth() {
	define(t, "setup_authentication",
		"Get instructions for setting up authentication with Monarch Money.",
		func(ctx context.Context, _ struct{}) (any, error) {
			return text(setupInstructions), nil
		})

	define(t, "authenticate_with_google",
		"Open a browser window to sign in to Monarch Money (Google or email/password). The session token is captured and saved automatically. Use this after authentication errors.",
		t.authenticate)

	define(t, "check_auth_status",
		"Check whether a Monarch Money token is stored and which fallback credentials are configured.",
		t.checkAuthStatus)

	define(t, "debug_session_loading",
		"Diagnose loading the stored session token from the system keyring.",
		t.debugSessionLoading)

	define(t, "logout",
		"Delete the stored Monarch Money token and forget the cached session.",
		func(ctx context.Context, _ struct{}) (any, error) {
			if t.deps.Store != nil {
				t.deps.Store.DeleteToken()
			}
			if t.deps.Provider != nil {
				t.deps.Provider.ClearCache()
			}
			return &authResult{Success: true, Message: "Logged out. Stored token removed."}, nil
		})
}

func (t *Toolset) authenticate(ctx context.Context, _ struct{}) (any, error) {
	if t.deps.Capture == nil {
		return nil, errors.New("browser login is not available")
	}

	res := t.deps.Capture.Run(ctx)
	switch res.Outcome {
	case capture.Captured:
		return &authResult{Success: true, Message: "Authentication successful! Token saved."}, nil
	case capture.TimedOut:
		return &authResult{Success: false, Message: "Timeout - no token captured. Please try again."}, nil
	default:
		t.deps.Logger.Error("authentication failed", "error", res.Err)
		msg := "unknown error"
		if res.Err != nil {
			msg = res.Err.Error()
		}
		return &authResult{Success: false, Message: "Authentication failed: " + msg}, nil
	}
}

func (t *Toolset) checkAuthStatus(ctx context.Context, _ struct{}) (any, error) {
	var b strings.Builder

	lookup := t.lookup()
	switch lookup.Status {
	case session.Found:
		b.WriteString("Authentication token found in secure keyring storage\n")
	case session.StoreUnavailable:
		fmt.Fprintf(&b, "Keyring unavailable: %v\n", lookup.Err)
	default:
		b.WriteString("No authentication token found in keyring\n")
	}

	if email := t.deps.Env(provider.EnvEmail); email != "" {
		fmt.Fprintf(&b, "Environment email: %s\n", email)
	}
	b.WriteString("\nTry get_accounts to test the connection, or authenticate_with_google if needed.")
	return text(b.String()), nil
}

func (t *Toolset) debugSessionLoading(ctx context.Context, _ struct{}) (any, error) {
	lookup := t.lookup()
	switch lookup.Status {
	case session.Found:
		return text(fmt.Sprintf("Token found in keyring (length: %d)", len(lookup.Token))), nil
	case session.StoreUnavailable:
		return text(fmt.Sprintf("Keyring access failed:\nError: %v\nType: %T", lookup.Err, errors.Cause(lookup.Err))), nil
	default:
		return text("No token found in keyring. Run authenticate_with_google or 'monarch-mcp login' to authenticate."), nil
	}
}

func (t *Toolset) lookup() session.Lookup {
	if t.deps.Store == nil {
		return session.Lookup{Status: session.NotFound}
	}
	return t.deps.Store.Lookup()
}
