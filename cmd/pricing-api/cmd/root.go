// Package cmd provides the CLI commands of the pricing API.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/freight-pricing/internal/infrastructure/config"
	"github.com/99minutos/freight-pricing/pkg/logger"
)

var (
	cfg      *config.Config
	log      zerolog.Logger
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "pricing-api",
	Short: "Freight price administration service",
	Long: `pricing-api stores time-versioned freight prices, rejects prices that
overlap an existing current price, and serves each caller only the prices
their organization may see.

Configuration is read from the environment (see internal/infrastructure/config).

Examples:
  pricing-api migrate
  pricing-api serve`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// The configured logger needs the config, so config errors go to stderr.
		cfg = config.Load(zerolog.New(os.Stderr).With().Timestamp().Logger())
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		log = logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  !cfg.IsProduction(),
			File:    cfg.LogFile,
			Service: "pricing-api",
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Close()
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (trace, debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
