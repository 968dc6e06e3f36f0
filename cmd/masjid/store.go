package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/config"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository/postgres"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository/sqlite"
)

// openStore picks the backend from the database URL. PostgreSQL schemas
// are migrated up first; SQLite creates its tables on open.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	if cfg.IsPostgres() {
		if err := migrateUp(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}

		store, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, oops.Code("DB_CONNECT_FAILED").With("backend", "postgres").Wrap(err)
		}
		return store, nil
	}

	path := cfg.SQLitePath()
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, oops.Code("DB_DIR_FAILED").With("dir", dir).Wrap(err)
		}
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("backend", "sqlite").With("path", path).Wrap(err)
	}
	return store, nil
}

func migrateUp(databaseURL string, logger *slog.Logger) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "up").Wrap(err)
	}

	if v, dirty, err := m.Version(); err == nil {
		logger.Info("schema ready", slog.Uint64("version", uint64(v)), slog.Bool("dirty", dirty))
	}
	return nil
}
