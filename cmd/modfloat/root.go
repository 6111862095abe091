// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/modfloat/internal/logging"
)

// app carries state resolved before a subcommand runs.
type app struct {
	configFile string
	cfg        *config
	logger     *slog.Logger
}

// NewRootCmd creates the root command for the modfloat CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "modfloat",
		Short: "Evaluate modifiable stat profiles",
		Long: `modfloat evaluates stat profiles: stats with base values modified by
owners through ordered set, add, multiply, modulo, min, max and custom
Lua directives. Sheets can be snapshotted to SQLite or PostgreSQL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path (default XDG_CONFIG_HOME/modfloat/config.yaml)")
	registerConfigFlags(cmd.PersistentFlags())

	cmd.AddCommand(newEvalCmd(a))
	cmd.AddCommand(newTraceCmd(a))
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newSnapshotCmd(a))
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newServeCmd(a))

	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger, err := logging.Setup(logging.Config{
		Service: "modfloat",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   cfg.level(),
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
