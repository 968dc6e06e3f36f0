package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/config"
	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/repository/sqlite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// execute runs the CLI with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	t.Cleanup(func() { configFile = "" })

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "create-admin", "migrate"})

	for _, flag := range []string{"config", "database-url", "log-level", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestCreateAdmin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "masjid.db")

	out, err := execute(t, "create-admin", "--database-url", dbPath,
		"--username", "imam", "--password", "s3cret-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin 'imam' created successfully")

	out, err = execute(t, "create-admin", "--database-url", dbPath,
		"--username", "imam", "--password", "other-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin 'imam' already exists")

	store, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	admin, err := store.GetAdminByUsername(context.Background(), "imam")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", admin.PasswordHash)
}

func TestCreateAdmin_RequiresFlags(t *testing.T) {
	_, err := execute(t, "create-admin", "--database-url", filepath.Join(t.TempDir(), "x.db"))
	assert.ErrorContains(t, err, "required flag")
}

func TestCreateAdmin_RejectsBlankUsername(t *testing.T) {
	_, err := execute(t, "create-admin", "--database-url", filepath.Join(t.TempDir(), "x.db"),
		"--username", "   ", "--password", "pw")
	assert.Error(t, err)
}

func TestMigrate_SQLiteIsNoop(t *testing.T) {
	out, err := execute(t, "migrate", "--database-url", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to migrate")
}

func TestMigrate_RejectsUnknownAction(t *testing.T) {
	_, err := execute(t, "migrate", "sideways")
	assert.Error(t, err)
}

func TestOpenStore_SQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DatabaseURL: "sqlite://" + filepath.Join(dir, "data", "masjid.db")}

	store, err := openStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.FileExists(t, filepath.Join(dir, "data", "masjid.db"))
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{DatabaseURL: ":memory:"}

	store, err := openStore(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
