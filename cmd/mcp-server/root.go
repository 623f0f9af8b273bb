package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/monarch-mcp/internal/provider"
	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeAuthRequired = 2
	ExitCodeLoginFailed  = 3
)

// loginFailedError is returned when the browser login ended without a token.
type loginFailedError struct {
	err error
}

func (e *loginFailedError) Error() string {
	return "login failed: " + e.err.Error()
}

func (e *loginFailedError) Unwrap() error {
	return e.err
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "monarch-mcp",
		Short: "MCP server for Monarch Money",
		Long:  `monarch-mcp exposes your Monarch Money accounts, transactions, budgets
and rules as MCP tools. Run without a subcommand to serve over stdio.

Log in once with "monarch-mcp login"; the token is kept in the OS keyring.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}
	root.SetVersionTemplate(`{{printf "monarch-mcp version %s\n" .Version}}`)
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $HOME/.config/monarch-mcp/config.yaml)")

	root.AddCommand(
		newServeCmd(&configPath),
		newLoginCmd(&configPath),
		newStatusCmd(&configPath),
		newLogoutCmd(&configPath),
	)
	return root
}

// Execute runs the root command and exits with a code describing the error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var authRequired *provider.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var loginFailed *loginFailedError
	if errors.As(err, &loginFailed) {
		return ExitCodeLoginFailed
	}

	return ExitCodeError
}
