// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry defaults.
const (
	DefaultConnectRetries = 5
	DefaultConnectBackoff = 200 * time.Millisecond
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ConnectPostgres opens a pool for dsn and waits until the database answers,
// retrying with exponential backoff.
func ConnectPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.In("store").With("operation", "open pool").Wrap(err)
	}
	backoff := retry.WithMaxRetries(DefaultConnectRetries, retry.NewExponential(DefaultConnectBackoff))
	if err := waitReady(ctx, pool, backoff, logger); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitReady(ctx context.Context, p pinger, backoff retry.Backoff, logger *slog.Logger) error {
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := p.Ping(ctx); err != nil {
			logger.Warn("database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.In("store").
			With("operation", "ping").
			With("attempts", attempt).
			Wrapf(err, "database unreachable")
	}
	return nil
}
