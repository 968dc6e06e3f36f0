package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/config"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository/postgres"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Manage the PostgreSQL schema",
		Long:      `Apply (up), roll back (down) or report (version) PostgreSQL migrations. SQLite databases need no migration step.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE:      runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	action := "up"
	if len(args) == 1 {
		action = args[0]
	}

	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return err
	}

	if !cfg.IsPostgres() {
		cmd.Println("SQLite schema is applied when the database is opened; nothing to migrate")
		return nil
	}

	m, err := postgres.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	switch action {
	case "up":
		if err := m.Up(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "up").Wrap(err)
		}
		cmd.Println("Migrations completed successfully")
	case "down":
		if err := m.Down(); err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "down").Wrap(err)
		}
		cmd.Println("Migrations rolled back")
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "version").Wrap(err)
		}
		cmd.Printf("Schema version %d (dirty: %t)\n", v, dirty)
	}
	return nil
}
