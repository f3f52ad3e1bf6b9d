package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the price store schema and indexes",
	Long: `Prepares the configured price store.

  mongo     creates the scope, visibility and history indexes
  postgres  migrates the tables and the partial index on current scopes`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", 2*time.Minute, "overall migration timeout")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
		return err
	}
	defer func() { _ = st.close(context.Background()) }()

	if err := st.migrate(ctx); err != nil {
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("migration failed")
		return err
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("migration complete")
	return nil
}
