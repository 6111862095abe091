// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/holomush/modfloat/internal/sheet"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS stat_snapshots (
	sheet_id    TEXT    NOT NULL,
	stat        TEXT    NOT NULL,
	base        REAL    NOT NULL,
	ignore_mods INTEGER NOT NULL DEFAULT 0,
	saved_at    TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (sheet_id, stat)
)`

// SQLiteSnapshotStore implements SnapshotStore in a local SQLite file.
type SQLiteSnapshotStore struct {
	db   *sql.DB
	path string
}

var _ SnapshotStore = (*SQLiteSnapshotStore)(nil)

// OpenSQLite opens or creates the database at path and ensures its schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSnapshotStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, oops.In("store").With("path", path).Wrapf(err, "create database directory")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.In("store").With("path", path).Wrapf(err, "open sqlite")
	}
	// One writer keeps SQLite from reporting SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, oops.In("store").With("path", path).Wrapf(err, "create snapshot table")
	}
	return &SQLiteSnapshotStore{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteSnapshotStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}

// Save replaces the snapshot of sheetID in one transaction.
func (s *SQLiteSnapshotStore) Save(ctx context.Context, sheetID ulid.ULID, bases []sheet.Base) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return oops.In("store").With("operation", "begin save").Wrap(err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stat_snapshots WHERE sheet_id = ?`, sheetID.String()); err != nil {
		return oops.In("store").With("operation", "clear snapshot").Wrap(err)
	}
	for _, b := range bases {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stat_snapshots (sheet_id, stat, base, ignore_mods) VALUES (?, ?, ?, ?)`,
			sheetID.String(), b.Stat, b.Value, b.Ignore); err != nil {
			return oops.In("store").With("operation", "insert snapshot row").With("stat", b.Stat).Wrap(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return oops.In("store").With("operation", "commit save").Wrap(err)
	}
	return nil
}

// Load returns the snapshot of sheetID.
func (s *SQLiteSnapshotStore) Load(ctx context.Context, sheetID ulid.ULID) ([]sheet.Base, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stat, base, ignore_mods FROM stat_snapshots WHERE sheet_id = ? ORDER BY stat`,
		sheetID.String())
	if err != nil {
		return nil, oops.In("store").With("operation", "load snapshot").Wrap(err)
	}
	defer func() { _ = rows.Close() }()

	var bases []sheet.Base
	for rows.Next() {
		var b sheet.Base
		if err := rows.Scan(&b.Stat, &b.Value, &b.Ignore); err != nil {
			return nil, oops.In("store").With("operation", "scan snapshot row").Wrap(err)
		}
		bases = append(bases, b)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("store").With("operation", "iterate snapshot rows").Wrap(err)
	}
	if len(bases) == 0 {
		return nil, errNotFound(sheetID)
	}
	return bases, nil
}

// List returns every sheet with a snapshot, ordered by ID.
func (s *SQLiteSnapshotStore) List(ctx context.Context) ([]ulid.ULID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT sheet_id FROM stat_snapshots ORDER BY sheet_id`)
	if err != nil {
		return nil, oops.In("store").With("operation", "list snapshots").Wrap(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []ulid.ULID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, oops.In("store").With("operation", "scan sheet id").Wrap(err)
		}
		id, err := sheet.ParseID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("store").With("operation", "iterate sheet ids").Wrap(err)
	}
	return ids, nil
}

// Delete removes the snapshot of sheetID.
func (s *SQLiteSnapshotStore) Delete(ctx context.Context, sheetID ulid.ULID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stat_snapshots WHERE sheet_id = ?`, sheetID.String()); err != nil {
		return oops.In("store").With("operation", "delete snapshot").Wrap(err)
	}
	return nil
}
