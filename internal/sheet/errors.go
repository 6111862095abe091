// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package sheet

import (
	"errors"

	"github.com/samber/oops"

	"github.com/holomush/modfloat/pkg/modfloat"
)

// CodeStatNotFound is the oops error code for lookups of undefined stats.
const CodeStatNotFound = "STAT_NOT_FOUND"

// ErrStatNotFound is returned when a stat is not defined on the sheet.
var ErrStatNotFound = errors.New("stat not found")

func errNotFound(stat string) error {
	return oops.In("sheet").
		Code(CodeStatNotFound).
		With("stat", stat).
		Wrapf(ErrStatNotFound, "stat %q", stat)
}

func errBadName(stat string) error {
	return oops.In("sheet").
		Code(modfloat.CodeInvalidArgument).
		With("stat", stat).
		Hint("stat names are dot separated words, e.g. attributes.strength").
		Wrapf(modfloat.ErrInvalidArgument, "invalid stat name %q", stat)
}
