// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/modfloat/internal/profile"
	"github.com/holomush/modfloat/internal/script"
	"github.com/holomush/modfloat/internal/sheet"
	"github.com/holomush/modfloat/pkg/errutil"
)

// buildSheet loads the profile at path into a sheet with the given ID (zero
// generates one). The returned cleanup releases compiled scripts.
func (a *app) buildSheet(path string, id ulid.ULID, withMetrics bool) (*sheet.Sheet, func(), error) {
	p, err := profile.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	compiler := script.NewCompiler(script.Options{Logger: a.logger})
	s, err := profile.Build(p, sheet.Options{
		ID:      id,
		Compile: compiler.Transform,
		Logger:  a.logger,
		Metrics: withMetrics,
	})
	if err != nil {
		compiler.Close()
		return nil, nil, err
	}
	return s, compiler.Close, nil
}

func newEvalCmd(a *app) *cobra.Command {
	var (
		showTrace bool
		pattern   string
	)
	cmd := &cobra.Command{
		Use:   "eval <profile>",
		Short: "Print the computed value of every stat in a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := a.buildSheet(args[0], ulid.ULID{}, false)
			if err != nil {
				return err
			}
			defer cleanup()

			names, err := s.Match(pattern)
			if err != nil {
				return err
			}
			return printStats(cmd, s, names, showTrace)
		},
	}
	cmd.Flags().BoolVar(&showTrace, "trace", false, "print the application trace under each stat")
	cmd.Flags().StringVar(&pattern, "stats", "**", "glob selecting the stats to print")
	return cmd
}

func printStats(cmd *cobra.Command, s *sheet.Sheet, names []string, showTrace bool) error {
	out := cmd.OutOrStdout()
	for _, name := range names {
		st, err := s.Stat(name)
		if err != nil {
			return err
		}
		v, err := s.Value(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s = %s (floor %d, round %d, ceil %d)\n",
			name, strconv.FormatFloat(v, 'g', -1, 64), st.Floor(), st.Round(), st.Ceil())
		if showTrace {
			trace, err := s.Trace(name)
			if err != nil {
				return err
			}
			for _, line := range strings.Split(trace, "\n") {
				fmt.Fprintf(out, "    %s\n", line)
			}
		}
	}
	return nil
}

func newTraceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <profile> <stat>",
		Short: "Explain how one stat's value is derived",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := a.buildSheet(args[0], ulid.ULID{}, false)
			if err != nil {
				return err
			}
			defer cleanup()

			trace, err := s.Trace(args[1])
			if err != nil {
				return err
			}
			v, err := s.Value(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n%s\n", args[1], strconv.FormatFloat(v, 'g', -1, 64), trace)
			return nil
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile>...",
		Short: "Check profiles against the schema and directive grammar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := profile.LoadFile(path); err != nil {
					failed++
					errutil.LogError(a.logger.With("path", path), "profile invalid", err)
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if failed > 0 {
				return oops.Code(profile.CodeInvalid).Errorf("%d of %d profiles invalid", failed, len(args))
			}
			return nil
		},
	}
}
