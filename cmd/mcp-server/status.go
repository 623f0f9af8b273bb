package main

import (
	"fmt"

	"github.com/eshaffer321/monarch-mcp/internal/provider"
	"github.com/eshaffer321/monarch-mcp/internal/session"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStatusCmd(configPath *string) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show where the server will get its credentials from",
		Long:  `Show whether a token is stored in the keyring and whether environment
credentials are set. Exits with code 2 when neither is available.

Examples:
  monarch-mcp status           # local check only
  monarch-mcp status --verify  # also call the API with the credentials`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			lookup := a.store.Lookup()
			switch lookup.Status {
			case session.Found:
				fmt.Fprintf(out, "Keyring:     token stored (length: %d)\n", len(lookup.Token))
			case session.StoreUnavailable:
				fmt.Fprintf(out, "Keyring:     unavailable (%v)\n", lookup.Err)
			default:
				fmt.Fprintln(out, "Keyring:     no token")
			}

			creds := provider.EnvCredentials()
			switch {
			case creds.Complete():
				fmt.Fprintf(out, "Environment: credentials for %s\n", creds.Email)
			case creds.Email != "":
				fmt.Fprintf(out, "Environment: email %s without password\n", creds.Email)
			default:
				fmt.Fprintln(out, "Environment: no credentials")
			}

			if lookup.Status != session.Found && !creds.Complete() {
				return &provider.AuthRequiredError{}
			}
			if !verify {
				return nil
			}

			client, err := a.provider.Client(cmd.Context())
			if err != nil {
				return err
			}
			accounts, err := client.Accounts.List(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "credentials were rejected")
			}
			fmt.Fprintf(out, "Verified:    %d accounts visible\n", len(accounts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "call the API to check the credentials work")
	return cmd
}
