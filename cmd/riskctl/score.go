package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aristath/riskgauge/internal/modules/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <domain|all> <query>",
	Short: "Score a stock on one domain or all four",
	Long: "Domains: stability (alias financial), profitability, volatility, supply (alias supply-risk), or all.\n" +
		"The query is a company name or a six-digit code.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[1]

		if strings.EqualFold(args[0], "all") {
			ov, err := container.RiskService.Overview(ctx, query)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), ov)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n\n", ov.Symbol, ov.Name)
			for _, rep := range []scoring.Report{ov.Stability, ov.Profitability, ov.Volatility, ov.Supply} {
				formatReport(cmd.OutOrStdout(), rep)
			}
			return nil
		}

		d, err := scoring.ParseDomain(args[0])
		if err != nil {
			return err
		}
		rep, err := container.RiskService.Score(ctx, d, query)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		formatReport(cmd.OutOrStdout(), rep)
		return nil
	},
}
