// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/holomush/modfloat/internal/sheet"
	"github.com/holomush/modfloat/internal/store"
)

// openStore returns the Postgres store when a database URL is configured and
// the SQLite store otherwise.
func (a *app) openStore(ctx context.Context) (store.SnapshotStore, func(), error) {
	if a.cfg.DatabaseURL != "" {
		pool, err := store.ConnectPostgres(ctx, a.cfg.DatabaseURL, a.logger)
		if err != nil {
			return nil, nil, err
		}
		a.logger.Debug("using postgres snapshot store")
		return store.NewPostgresSnapshotStore(pool), pool.Close, nil
	}
	s, err := store.OpenSQLite(ctx, a.cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Debug("using sqlite snapshot store", "path", s.Path())
	return s, func() { _ = s.Close() }, nil
}

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and load sheet snapshots",
		Long: `Snapshots persist the base value and ignore flag of every stat on a
sheet. Modifications are not stored; owners re-apply them from the profile.`,
	}
	cmd.AddCommand(newSnapshotSaveCmd(a))
	cmd.AddCommand(newSnapshotLoadCmd(a))
	cmd.AddCommand(newSnapshotListCmd(a))
	cmd.AddCommand(newSnapshotDeleteCmd(a))
	return cmd
}

func parseSheetID(raw string) (ulid.ULID, error) {
	if raw == "" {
		return ulid.ULID{}, nil
	}
	return sheet.ParseID(raw)
}

func newSnapshotSaveCmd(a *app) *cobra.Command {
	var sheetID string
	cmd := &cobra.Command{
		Use:   "save <profile>",
		Short: "Build a profile and store its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSheetID(sheetID)
			if err != nil {
				return err
			}
			s, cleanup, err := a.buildSheet(args[0], id, false)
			if err != nil {
				return err
			}
			defer cleanup()

			st, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.SaveSheet(cmd.Context(), st, s); err != nil {
				return err
			}
			a.logger.Info("snapshot saved", "sheet_id", s.ID().String(), "stats", len(s.Names()))
			fmt.Fprintln(cmd.OutOrStdout(), s.ID().String())
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetID, "sheet-id", "", "sheet ULID to save under (default: new ID)")
	return cmd
}

func newSnapshotLoadCmd(a *app) *cobra.Command {
	var (
		profilePath string
		showTrace   bool
	)
	cmd := &cobra.Command{
		Use:   "load <sheet-id>",
		Short: "Print a stored snapshot, optionally re-applying a profile's owners",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sheet.ParseID(args[0])
			if err != nil {
				return err
			}
			st, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if profilePath == "" {
				bases, err := st.Load(cmd.Context(), id)
				if err != nil {
					return err
				}
				for _, b := range bases {
					line := b.Stat + " = " + strconv.FormatFloat(b.Value, 'g', -1, 64)
					if b.Ignore {
						line += " (modifiers ignored)"
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			}

			s, cleanup, err := a.buildSheet(profilePath, id, false)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := store.LoadSheet(cmd.Context(), st, s); err != nil {
				return err
			}
			return printStats(cmd, s, s.Names(), showTrace)
		},
	}
	cmd.Flags().StringVar(&profilePath, "profile", "", "profile whose owners are re-applied over the stored bases")
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the application trace under each stat")
	return cmd
}

func newSnapshotListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sheet IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id.String())
			}
			return nil
		},
	}
}

func newSnapshotDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <sheet-id>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sheet.ParseID(args[0])
			if err != nil {
				return err
			}
			st, closeStore, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()
			return st.Delete(cmd.Context(), id)
		},
	}
}
