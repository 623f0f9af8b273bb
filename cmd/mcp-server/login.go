package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/eshaffer321/monarch-mcp/internal/capture"
	"github.com/eshaffer321/monarch-mcp/internal/provider"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// EnvToken is read by "login --token" when no value is given.
const EnvToken = "MONARCH_TOKEN"

// fromEnv is the --token value meaning "read $MONARCH_TOKEN".
const fromEnv = "-"

func newLoginCmd(configPath *string) *cobra.Command {
	var (
		token    string
		password bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to Monarch Money and store the token in the keyring",
		Long:  `Log in to Monarch Money and store the API token in the OS keyring.

By default a browser window opens on the Monarch login page. Sign in with
Google or email and the token is captured when the page makes its first
API request.

Examples:
  monarch-mcp login                  # browser login
  monarch-mcp login --token=<token>  # store a token you already have
  monarch-mcp login --token          # store $MONARCH_TOKEN
  monarch-mcp login --password       # log in with $MONARCH_EMAIL and $MONARCH_PASSWORD`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("token") && password {
				return errors.New("--token and --password cannot be combined")
			}

			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			switch {
			case cmd.Flags().Changed("token"):
				return loginWithToken(cmd, a, token)
			case password:
				return loginWithPassword(cmd, a)
			default:
				return loginWithBrowser(cmd, a)
			}
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "store this token instead of opening a browser (no value reads $"+EnvToken+")")
	cmd.Flags().Lookup("token").NoOptDefVal = fromEnv
	cmd.Flags().BoolVar(&password, "password", false, "log in with $MONARCH_EMAIL, $MONARCH_PASSWORD and optional $MONARCH_MFA_SECRET")
	return cmd
}

func loginWithToken(cmd *cobra.Command, a *app, token string) error {
	if token == fromEnv || token == "" {
		token = os.Getenv(EnvToken)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.Errorf("no token given and $%s is not set", EnvToken)
	}

	if err := a.store.SaveToken(token); err != nil {
		return err
	}
	a.provider.ClearCache()
	fmt.Fprintln(cmd.OutOrStdout(), "Token saved to keyring.")
	return nil
}

func loginWithPassword(cmd *cobra.Command, a *app) error {
	creds := provider.EnvCredentials()
	if !creds.Complete() {
		return &provider.AuthRequiredError{Command: "monarch-mcp login"}
	}

	s := newSpinner(cmd, " Logging in as "+creds.Email+"...")
	s.Start()
	client, err := provider.PasswordLogin(a.clientOptions())(cmd.Context(), creds)
	s.Stop()
	if err != nil {
		return errors.Wrap(err, "password login failed")
	}

	if err := a.store.SaveAuthenticatedSession(client); err != nil {
		return err
	}
	a.provider.ClearCache()
	fmt.Fprintln(cmd.OutOrStdout(), "Logged in. Token saved to keyring.")
	return nil
}

func loginWithBrowser(cmd *cobra.Command, a *app) error {
	s := newSpinner(cmd, " Launching browser...")
	s.Start()

	var flow *capture.Flow
	flow = a.captureFlow(func(state capture.State, elapsed time.Duration) {
		if state != capture.AwaitingToken {
			return
		}
		s.Lock()
		s.Suffix = waitSuffix(flow.Config().Timeout, elapsed)
		s.Unlock()
	})
	res := flow.Run(cmd.Context())
	s.Stop()

	switch res.Outcome {
	case capture.Captured:
		fmt.Fprintln(cmd.OutOrStdout(), "Authentication successful! Token saved to keyring.")
		return nil
	case capture.TimedOut:
		return &loginFailedError{err: errors.Errorf("no token captured within %s", flow.Config().Timeout)}
	default:
		return &loginFailedError{err: res.Err}
	}
}

// waitSuffix is the spinner text while the browser waits for a login.
func waitSuffix(timeout, elapsed time.Duration) string {
	remaining := max(timeout-elapsed, 0)
	return fmt.Sprintf(" Waiting for you to log in (%s left)...", remaining.Truncate(time.Second))
}

func newSpinner(cmd *cobra.Command, suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = suffix
	return s
}
