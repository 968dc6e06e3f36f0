package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/errutil"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/server"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. The database is opened (and, for PostgreSQL,
migrated) first; the server drains in-flight requests on SIGINT or SIGTERM.`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address, e.g. :8000")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		errutil.LogError(logger, "opening store", err)
		return err
	}

	srv, err := server.New(cfg, store, logger)
	if err != nil {
		_ = store.Close()
		return oops.Code("SERVER_INIT_FAILED").Wrap(err)
	}

	if err := srv.Start(); err != nil {
		errutil.LogError(logger, "server stopped", err)
		return err
	}
	return nil
}
