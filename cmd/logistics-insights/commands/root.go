package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"logistics-insights/internal/config"
	"logistics-insights/internal/logging"
	"logistics-insights/internal/mcp"
	"logistics-insights/internal/service"
	"logistics-insights/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	configPath string
	cfg        *config.AppConfig

	provider *store.Provider
)

var rootCmd = &cobra.Command{
	Use:   "logistics-insights",
	Short: "Logistics Insights is an analytics MCP server for shipment history",
	Long: `An MCP Server that turns raw shipment history into decision support:
product demand estimates, carrier rankings, shipment anomalies and warehouse insights.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := logging.Init(verbose); err != nil {
			logging.Setup(os.Stderr, nil, verbose)
			log.Warn().Err(err).Msg("File logging disabled")
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid configuration")
		}

		provider, err = store.Open(cfg.DB.Driver, cfg.DatabaseDSN())
		if err != nil {
			log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("Failed to open database")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("driver", cfg.DB.Driver).
			Msg("Logistics Insights starting")
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if provider != nil {
			_ = provider.Close()
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		server := mcp.NewServer(cfg, newService(), Version)
		if err := server.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("MCP server stopped")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML configuration file")

	rootCmd.AddCommand(serveCmd, migrateCmd, versionCmd)
}

func newService() *service.Service {
	return service.New(provider, service.Options{
		DemandWindowDays: cfg.Analysis.DemandWindowDays,
		DemandTopN:       cfg.Analysis.DemandTopN,
		AnomalyLimit:     cfg.Analysis.AnomalyLimit,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
