// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modfloat/pkg/errutil"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerConfigFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := loadConfig("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, defaultLogFormat, cfg.LogFormat)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "modfloat", "snapshots.db"), cfg.SQLitePath)
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "log_format: json\nlog_level: warn\nsqlite_path: /tmp/from-file.db\n")

	cfg, err := loadConfig(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/from-file.db", cfg.SQLitePath)

	cfg, err = loadConfig(path, newFlags(t, "--log-level", "error", "-v"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "debug", cfg.level())
}

func TestLoadConfig_XDGFile(t *testing.T) {
	isolate(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "modfloat")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_format: json\n"), 0o600))

	cfg, err := loadConfig("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_DatabaseURLFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://u@db/x")
	cfg, err := loadConfig("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "postgres://u@db/x", cfg.DatabaseURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name  string
		path  string
		flags []string
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "nope.yaml"), nil},
		{"bad yaml", writeConfig(t, "log_format: [\n"), nil},
		{"bad format", "", []string{"--log-format", "xml"}},
		{"bad level", "", []string{"--log-level", "loud"}},
		{"bad database url", "", []string{"--database-url", "mysql://db"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path, newFlags(t, tt.flags...))
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		})
	}
}
