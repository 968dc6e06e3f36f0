package main

import (
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/config"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the masjid CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "masjid",
		Short: "Masjid daily food sponsorship service",
		Long: `masjid runs the REST API through which community members sponsor
the daily meal of the masjid ustad, and the tooling to administer it.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (YAML)")
	pf.String("database-url", "", "SQLite path or postgres:// URL")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

// loadConfig resolves configuration for cmd and builds its logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.Setup(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg, logger, nil
}
