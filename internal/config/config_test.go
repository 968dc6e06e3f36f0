package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useDotenv points the loader at a temp .env for the duration of the test.
func useDotenv(t *testing.T, content string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".env")
	if content != "" {
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	prev := dotenvFile
	dotenvFile = p
	t.Cleanup(func() { dotenvFile = prev })
}

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", ":8000", "")
	fs.String("database-url", "", "")
	fs.String("log-level", "", "")
	fs.String("config", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	useDotenv(t, "")

	cfg, err := Load(nil, "")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "data/masjid.db", cfg.DatabaseURL)
	assert.Equal(t, "change_me_in_production", cfg.SecretKey)
	assert.Equal(t, 30, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsPostgres())
}

func TestLoad_Precedence(t *testing.T) {
	useDotenv(t, "")

	yamlPath := filepath.Join(t.TempDir(), "masjid.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
addr: ":9000"
database_url: "file.db"
access_token_expire_minutes: 45
log_format: json
`), 0o600))

	t.Setenv("DATABASE_URL", "env.db")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--log-level", "debug"}))

	cfg, err := Load(flags, yamlPath)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr, "unset flag must not override the file")
	assert.Equal(t, "env.db", cfg.DatabaseURL, "env overrides the file")
	assert.Equal(t, 45, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel, "set flag wins")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	useDotenv(t, "")
	t.Setenv("DATABASE_URL", "env.db")

	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--database-url", "postgres://u:p@localhost/masjid"}))

	cfg, err := Load(flags, "")
	require.NoError(t, err)
	assert.True(t, cfg.IsPostgres())
}

func TestLoad_Dotenv(t *testing.T) {
	const key = "SECRET_KEY"
	require.Empty(t, os.Getenv(key))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	useDotenv(t, "SECRET_KEY=a-much-longer-dotenv-secret\n")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "a-much-longer-dotenv-secret", cfg.SecretKey)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	useDotenv(t, "")

	_, err := Load(nil, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFromEnv(t *testing.T) {
	useDotenv(t, "")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "0")

	_, err := Load(nil, "")
	assert.ErrorContains(t, err, "access_token_expire_minutes")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Addr:                     ":8000",
			DatabaseURL:              "data/masjid.db",
			SecretKey:                "0123456789abcdef",
			AccessTokenExpireMinutes: 30,
			LogFormat:                "text",
			LogLevel:                 "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.SecretKey = "short" }, "secret_key"},
		{"zero minutes", func(c *Config) { c.AccessTokenExpireMinutes = 0 }, "access_token_expire_minutes"},
		{"negative minutes", func(c *Config) { c.AccessTokenExpireMinutes = -5 }, "access_token_expire_minutes"},
		{"empty database", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseSelection(t *testing.T) {
	tests := []struct {
		url      string
		postgres bool
		path     string
	}{
		{"postgres://u@h/db", true, ""},
		{"postgresql://u@h/db", true, ""},
		{"POSTGRES://u@h/db", true, ""},
		{"sqlite://data/x.db", false, "data/x.db"},
		{"data/x.db", false, "data/x.db"},
		{":memory:", false, ":memory:"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			cfg := Config{DatabaseURL: tt.url}
			assert.Equal(t, tt.postgres, cfg.IsPostgres())
			if !tt.postgres {
				assert.Equal(t, tt.path, cfg.SQLitePath())
			}
		})
	}
}
