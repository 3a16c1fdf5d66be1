// Command riskctl scores listed stocks from the terminal using the same
// services as the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/riskgauge/internal/config"
	"github.com/aristath/riskgauge/internal/di"
	"github.com/aristath/riskgauge/pkg/logger"
)

var (
	cfg       *config.Config
	container *di.Container
	log       zerolog.Logger

	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "riskctl",
	Short:         "Stock risk scoring from the KIS Open API",
	Long:          "Resolves Korean listed companies and scores stability, profitability, volatility and supply/demand risk.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		level := "warn"
		if verbose {
			level = "debug"
		}
		log = logger.New(logger.Config{Level: level, Pretty: true, Output: os.Stderr})

		container, _, err = di.Wire(cfg, log)
		if err != nil {
			return fmt.Errorf("wire: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of a table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(scoreCmd, summaryCmd, symbolsCmd, tokenCmd)
}

// execute runs cmd and closes the container afterwards. Cobra skips post-run
// hooks when RunE fails, so closing cannot live in PersistentPostRun.
func execute(cmd *cobra.Command) error {
	defer closeContainer()
	return cmd.Execute()
}

func closeContainer() {
	if container == nil {
		return
	}
	if err := container.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close cache database")
	}
	container = nil
}

func main() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
