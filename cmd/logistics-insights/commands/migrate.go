package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the shipment history schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := provider.Migrate(context.Background()); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.DB.Driver).Msg("Schema migrated")
		return nil
	},
}
