// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package modfloat provides a floating-point value whose effective value is
// derived from a set of modifications contributed by independent owners.
//
// Owners register modifications (set, add, multiply, modulo, minimum,
// maximum, custom) against a Float, each keyed by the owner identity and an
// optional name. The computed value is the deterministic fold of every active
// modification over the base value:
//
//	hp := modfloat.New[string](10)
//	_ = hp.Add("potion", "", 10.5, 5)
//	_ = hp.Minimum("aura", "", 5, 5)
//	hp.Value() // 20.5
//
// Modifications are applied in ascending order. When several kinds share an
// order they apply Set, Add, Multiply, Modulo, Min, Max, Custom; within one
// kind they apply in registration order.
//
// Re-registering an identical modification is a no-op, so callers may
// re-submit their modifications every tick without forcing a recompute.
//
// A Float is not safe for concurrent use. Callers sharing one across
// goroutines must synchronize externally.
package modfloat
