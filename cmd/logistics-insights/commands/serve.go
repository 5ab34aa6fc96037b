package commands

import (
	"logistics-insights/internal/httpapi"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyses over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		server := httpapi.NewServer(cfg, newService())
		if err := server.Run(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
			return err
		}
		return nil
	},
}
