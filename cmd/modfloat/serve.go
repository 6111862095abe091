// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/holomush/modfloat/internal/observability"
)

// Default values for serve flags.
const (
	defaultServeAddr    = "127.0.0.1:9100"
	serveShutdownBudget = 5 * time.Second
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <profile>",
		Short: "Serve a profile's stats, metrics and health probes over HTTP",
		Long: `Serve builds the profile and exposes:

  GET /stats                 every stat value as JSON
  GET /stats/{name}[?trace]  one stat, optionally with its trace
  GET /metrics               Prometheus metrics
  GET /healthz/liveness      liveness probe
  GET /healthz/readiness     readiness probe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := a.buildSheet(args[0], ulid.ULID{}, true)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := observability.NewServer(addr, s, a.logger)
			errCh, err := server.Start()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", server.Addr())

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownBudget)
			defer cancel()
			return server.Stop(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "HTTP listen address")
	return cmd
}
