package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogoutCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token from the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			a.store.DeleteToken()
			a.provider.ClearCache()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Token removed from keyring.")
			return nil
		},
	}
}
