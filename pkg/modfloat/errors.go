// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import (
	"errors"

	"github.com/samber/oops"
)

// CodeInvalidArgument is the oops error code for rejected caller input.
const CodeInvalidArgument = "INVALID_ARGUMENT"

// ErrInvalidArgument is matched by every error returned for rejected input.
var ErrInvalidArgument = errors.New("invalid argument")

func errNoOwner(op string) error {
	return oops.In("modfloat").
		Code(CodeInvalidArgument).
		With("operation", op).
		Wrapf(ErrInvalidArgument, "owner must not be the zero value")
}

func errNoTransform(name string) error {
	return oops.In("modfloat").
		Code(CodeInvalidArgument).
		With("operation", "register").
		With("name", name).
		Wrapf(ErrInvalidArgument, "custom modification requires a transform")
}

func errBadKind(kind Kind) error {
	return oops.In("modfloat").
		Code(CodeInvalidArgument).
		With("operation", "register").
		With("kind", kind.String()).
		Wrapf(ErrInvalidArgument, "unknown modification kind")
}
