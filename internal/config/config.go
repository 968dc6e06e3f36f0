// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file, the environment and command flags, in rising order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/Hafizmuhammedk/Masjid-Ustad-Daily-Food-Sponsorship-System/internal/logging"
)

// MinSecretLength is the shortest signing secret Validate accepts.
const MinSecretLength = 16

// dotenvFile is read into the process environment before env vars are loaded.
var dotenvFile = ".env"

// Config is the resolved runtime configuration.
type Config struct {
	Addr                     string   `koanf:"addr"`
	DatabaseURL              string   `koanf:"database_url"`
	SecretKey                string   `koanf:"secret_key"`
	AccessTokenExpireMinutes int      `koanf:"access_token_expire_minutes"`
	CORSOrigins              []string `koanf:"cors_origins"`
	LogFormat                string   `koanf:"log_format"`
	LogLevel                 string   `koanf:"log_level"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"addr":                        ":8000",
		"database_url":                "data/masjid.db",
		"secret_key":                  "change_me_in_production",
		"access_token_expire_minutes": 30,
		"cors_origins":                []string{"*"},
		"log_format":                  "text",
		"log_level":                   "info",
	}
}

// Load resolves the configuration. path may be empty; flags may be nil.
// Only flags the user actually set override lower layers.
func Load(flags *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")
	defaults := Defaults()

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Code("CONFIG_DOTENV_FAILED").With("path", dotenvFile).Wrap(err)
	}

	envCB := func(key, value string) (string, any) {
		key = strings.ToLower(key)
		if _, known := defaults[key]; !known {
			return "", nil
		}
		if key == "cors_origins" {
			return key, splitList(value)
		}
		return key, value
	}
	if err := k.Load(env.ProviderWithValue("", ".", envCB), nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		flagCB := func(f *pflag.Flag) (string, any) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, known := defaults[key]; !known || !f.Changed {
				return "", nil
			}
			return key, f.Value.String()
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagCB), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if len(c.SecretKey) < MinSecretLength {
		return fmt.Errorf("secret_key must be at least %d characters", MinSecretLength)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("access_token_expire_minutes must be positive, got %d", c.AccessTokenExpireMinutes)
	}
	if c.DatabaseURL == "" {
		return errors.New("database_url is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// TokenTTL is the access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// IsPostgres reports whether DatabaseURL names a PostgreSQL server.
func (c *Config) IsPostgres() bool {
	u := strings.ToLower(c.DatabaseURL)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// SQLitePath is DatabaseURL with any sqlite:// prefix removed.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
