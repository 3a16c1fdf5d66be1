package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the cached KIS access token",
}

var tokenRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Discard the cached token and issue a new one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := container.TokenProvider.Refresh(cmd.Context()); err != nil {
			return err
		}
		st := container.TokenProvider.Status()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "token refreshed, expires %s\n", st.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

var tokenStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a valid token is cached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Status only reflects memory; load the file copy first.
		_ = container.TokenProvider.LoadCached()
		st := container.TokenProvider.Status()
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), st)
		}
		if !st.Valid {
			fmt.Fprintln(cmd.OutOrStdout(), "no valid token")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "valid until %s\n", st.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenRefreshCmd, tokenStatusCmd)
}
