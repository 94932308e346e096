// Package config resolves run settings from flags, environment and an optional file.
//
// Precedence, highest first: command-line flags that were set explicitly,
// GOLFRIKET_* environment variables (a .env file in the working directory is
// loaded into the environment first), an optional config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/golfriket-clubs/internal/fetch"
	"github.com/pfrederiksen/golfriket-clubs/internal/scraper"
	"github.com/pfrederiksen/golfriket-clubs/internal/storage"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "GOLFRIKET"

// Keys shared by flags, environment variables and config files
const (
	KeyBaseURL     = "base-url"
	KeyListingPath = "listing-path"
	KeyOutput      = "output"
	KeyFormat      = "format"
	KeyPostgresDSN = "postgres-dsn"
	KeyTimeout     = "timeout"
	KeyRetries     = "retries"
	KeyLogLevel    = "log-level"
	KeyVerbose     = "verbose"
	KeyConfigFile  = "config"
)

// Config holds the settings for one scrape run
type Config struct {
	BaseURL     string
	ListingPath string
	Output      string
	Format      string
	PostgresDSN string
	Timeout     time.Duration
	Retries     uint64
	LogLevel    string
	Verbose     bool
}

// ListingURL is the base URL followed by the listing path
func (c *Config) ListingURL() string {
	return c.BaseURL + c.ListingPath
}

// SetDefaults registers the default value for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, scraper.BaseURL)
	v.SetDefault(KeyListingPath, scraper.ListingPath)
	v.SetDefault(KeyOutput, storage.DefaultOutput)
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyPostgresDSN, "")
	v.SetDefault(KeyTimeout, fetch.Timeout)
	v.SetDefault(KeyRetries, 0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyVerbose, false)
}

// Load builds a Config. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	retries := v.GetInt(KeyRetries)
	if retries < 0 {
		return nil, fmt.Errorf("retries must not be negative, got %d", retries)
	}

	// Zero disables the client timeout
	timeout := v.GetDuration(KeyTimeout)
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", timeout)
	}

	cfg := &Config{
		BaseURL:     strings.TrimSpace(v.GetString(KeyBaseURL)),
		ListingPath: strings.TrimSpace(v.GetString(KeyListingPath)),
		Output:      strings.TrimSpace(v.GetString(KeyOutput)),
		Format:      strings.TrimSpace(v.GetString(KeyFormat)),
		PostgresDSN: strings.TrimSpace(v.GetString(KeyPostgresDSN)),
		Timeout:     timeout,
		Retries:     uint64(retries),
		LogLevel:    v.GetString(KeyLogLevel),
		Verbose:     v.GetBool(KeyVerbose),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyBaseURL)
	}

	return cfg, nil
}
