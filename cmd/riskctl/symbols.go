package main

import (
	"github.com/spf13/cobra"
)

var symbolsLimit int

var symbolsCmd = &cobra.Command{
	Use:   "symbols [query]",
	Short: "List known symbols, optionally filtered by name or code",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		list := container.SymbolTable.Search(query, symbolsLimit)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		formatSymbols(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	symbolsCmd.Flags().IntVar(&symbolsLimit, "limit", 20, "maximum rows (0 for all)")
}
