// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/modfloat/internal/logging"
	"github.com/holomush/modfloat/internal/xdg"
)

// Default values for global flags.
const (
	defaultLogFormat = "text"
	defaultLogLevel  = "info"
)

// config holds settings shared by every subcommand. Values come from flag
// defaults, then the config file, then flags set on the command line.
type config struct {
	LogFormat   string `koanf:"log_format"`
	LogLevel    string `koanf:"log_level"`
	Verbose     bool   `koanf:"verbose"`
	DatabaseURL string `koanf:"database_url"`
	SQLitePath  string `koanf:"sqlite_path"`
}

// Validate checks that the configuration is valid.
func (cfg *config) Validate() error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log_format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	if cfg.DatabaseURL != "" &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(cfg.DatabaseURL, "postgresql://") {
		return oops.Code("CONFIG_INVALID").Errorf("database_url must be a postgres:// URL")
	}
	return nil
}

// level returns the effective log level.
func (cfg *config) level() string {
	if cfg.Verbose {
		return "debug"
	}
	return cfg.LogLevel
}

// registerConfigFlags adds the global flags backing config.
func registerConfigFlags(flags *pflag.FlagSet) {
	flags.String("log-format", defaultLogFormat, "log format (json or text)")
	flags.String("log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "shorthand for --log-level=debug")
	flags.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL URL for snapshots (default $DATABASE_URL)")
	flags.String("sqlite-path", "", "SQLite snapshot database (default XDG_DATA_HOME/modfloat/snapshots.db)")
}

// loadConfig merges the config file at path with flags. An empty path reads
// the XDG config file when it exists.
func loadConfig(path string, flags *pflag.FlagSet) (*config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = xdg.ConfigFile()
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrapf(err, "loading config file")
		}
	}

	flagKey := func(f *pflag.Flag) (string, any) {
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
	if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey), nil); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "loading flags")
	}

	var cfg config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "decoding config")
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = xdg.SnapshotDB()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
