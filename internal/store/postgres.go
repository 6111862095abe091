// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/modfloat/internal/sheet"
)

// poolIface is the subset of pgxpool.Pool used by the store. pgxmock
// implements it in tests.
type poolIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSnapshotStore implements SnapshotStore using PostgreSQL.
type PostgresSnapshotStore struct {
	pool poolIface
}

var _ SnapshotStore = (*PostgresSnapshotStore)(nil)

// NewPostgresSnapshotStore creates a store over pool. The schema must have
// been migrated with Migrator.Up.
func NewPostgresSnapshotStore(pool poolIface) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{pool: pool}
}

// Save replaces the snapshot of sheetID in one transaction.
func (s *PostgresSnapshotStore) Save(ctx context.Context, sheetID ulid.ULID, bases []sheet.Base) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return pgError(err, "begin save")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM stat_snapshots WHERE sheet_id = $1`, sheetID.String()); err != nil {
		_ = tx.Rollback(ctx) //nolint:errcheck // the exec error takes precedence
		return pgError(err, "clear snapshot")
	}
	for _, b := range bases {
		if _, err := tx.Exec(ctx,
			`INSERT INTO stat_snapshots (sheet_id, stat, base, ignore_mods) VALUES ($1, $2, $3, $4)`,
			sheetID.String(), b.Stat, b.Value, b.Ignore); err != nil {
			_ = tx.Rollback(ctx) //nolint:errcheck // the exec error takes precedence
			return oops.With("stat", b.Stat).Wrap(pgError(err, "insert snapshot row"))
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return pgError(err, "commit save")
	}
	return nil
}

// Load returns the snapshot of sheetID.
func (s *PostgresSnapshotStore) Load(ctx context.Context, sheetID ulid.ULID) ([]sheet.Base, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT stat, base, ignore_mods FROM stat_snapshots WHERE sheet_id = $1 ORDER BY stat`,
		sheetID.String())
	if err != nil {
		return nil, pgError(err, "load snapshot")
	}
	defer rows.Close()

	var bases []sheet.Base
	for rows.Next() {
		var b sheet.Base
		if err := rows.Scan(&b.Stat, &b.Value, &b.Ignore); err != nil {
			return nil, oops.With("operation", "scan snapshot row").Wrap(err)
		}
		bases = append(bases, b)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError(err, "iterate snapshot rows")
	}
	if len(bases) == 0 {
		return nil, errNotFound(sheetID)
	}
	return bases, nil
}

// List returns every sheet with a snapshot, ordered by ID.
func (s *PostgresSnapshotStore) List(ctx context.Context) ([]ulid.ULID, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT sheet_id FROM stat_snapshots ORDER BY sheet_id`)
	if err != nil {
		return nil, pgError(err, "list snapshots")
	}
	defer rows.Close()

	var ids []ulid.ULID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, oops.With("operation", "scan sheet id").Wrap(err)
		}
		id, err := sheet.ParseID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError(err, "iterate sheet ids")
	}
	return ids, nil
}

// Delete removes the snapshot of sheetID.
func (s *PostgresSnapshotStore) Delete(ctx context.Context, sheetID ulid.ULID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM stat_snapshots WHERE sheet_id = $1`, sheetID.String()); err != nil {
		return pgError(err, "delete snapshot")
	}
	return nil
}

// pgError wraps a database error, mapping a missing table to
// CodeSchemaMissing.
func pgError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return oops.In("store").
			Code(CodeSchemaMissing).
			With("operation", operation).
			Hint("run `modfloat migrate up` against this database").
			Wrap(err)
	}
	return oops.In("store").With("operation", operation).Wrap(err)
}
