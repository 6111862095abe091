// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store persists sheet snapshots.
//
// A snapshot holds the base value and ignore flag of every stat on a sheet.
// Modifications are not persisted; their owners re-apply them on load.
package store

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/modfloat/internal/sheet"
)

// Error codes.
const (
	CodeNotFound      = "SNAPSHOT_NOT_FOUND"
	CodeSchemaMissing = "SNAPSHOT_SCHEMA_MISSING"
)

// ErrNotFound is returned by Load for sheets without a snapshot.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore saves and loads sheet snapshots.
type SnapshotStore interface {
	// Save replaces the snapshot of sheetID with bases.
	Save(ctx context.Context, sheetID ulid.ULID, bases []sheet.Base) error
	// Load returns the snapshot of sheetID ordered by stat name.
	Load(ctx context.Context, sheetID ulid.ULID) ([]sheet.Base, error)
	// List returns every sheet with a snapshot.
	List(ctx context.Context) ([]ulid.ULID, error)
	// Delete removes the snapshot of sheetID. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, sheetID ulid.ULID) error
}

func errNotFound(sheetID ulid.ULID) error {
	return oops.In("store").
		Code(CodeNotFound).
		With("sheet_id", sheetID.String()).
		Wrap(ErrNotFound)
}

// SaveSheet snapshots s into st under the sheet's ID.
func SaveSheet(ctx context.Context, st SnapshotStore, s *sheet.Sheet) error {
	return st.Save(ctx, s.ID(), s.Snapshot())
}

// LoadSheet restores the snapshot of s.ID() into s.
func LoadSheet(ctx context.Context, st SnapshotStore, s *sheet.Sheet) error {
	bases, err := st.Load(ctx, s.ID())
	if err != nil {
		return err
	}
	return s.Restore(bases)
}
