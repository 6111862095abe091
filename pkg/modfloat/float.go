// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import (
	"math"
	"strconv"
)

// Float is a value computed from a base and a set of owner modifications.
// The zero value is an empty container with a base of 0.
type Float[K comparable] struct {
	base     float64
	ignore   bool
	computed float64
	dirty    bool

	mods store[K]

	floor, round, ceil                int
	floorReady, roundReady, ceilReady bool

	resolve  func(K) string
	observer Observer

	// merges counts recomputes.
	merges uint64
}

// New returns a container with the given base value and no modifications.
func New[K comparable](base float64, opts ...Option[K]) *Float[K] {
	f := &Float[K]{base: base, computed: base, dirty: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Float[K]) obs() Observer {
	if f.observer == nil {
		return nopObserver{}
	}
	return f.observer
}

// Base returns the unmodified input value.
func (f *Float[K]) Base() float64 {
	return f.base
}

// SetBase changes the unmodified input value.
func (f *Float[K]) SetBase(v float64) {
	if math.Float64bits(f.base) == math.Float64bits(v) {
		return
	}
	// Any set modification discards everything applied before it, so the base
	// only matters when none is active.
	if f.ignore || len(f.mods.lists[KindSet]) == 0 {
		f.dirty = true
	}
	f.base = v
}

// IgnoreModifications reports whether modifications are bypassed.
func (f *Float[K]) IgnoreModifications() bool {
	return f.ignore
}

// SetIgnoreModifications toggles the bypass. While set, Value equals Base.
func (f *Float[K]) SetIgnoreModifications(ignore bool) {
	if f.ignore == ignore {
		return
	}
	f.ignore = ignore
	f.dirty = true
}

// Value returns the computed value, recomputing it only when stale.
func (f *Float[K]) Value() float64 {
	if f.dirty {
		f.recompute()
	}
	return f.computed
}

func (f *Float[K]) recompute() {
	steps := 0
	if f.ignore {
		f.computed = f.base
	} else {
		f.computed, steps = f.mods.merge(f.base, nil)
	}
	f.floorReady, f.roundReady, f.ceilReady = false, false, false
	f.dirty = false
	f.merges++
	f.obs().Merged(steps)
}

// Floor returns the computed value rounded down.
func (f *Float[K]) Floor() int {
	v := f.Value()
	if !f.floorReady {
		f.floor = toInt(math.Floor(v))
		f.floorReady = true
	}
	return f.floor
}

// Round returns the computed value rounded half away from zero.
func (f *Float[K]) Round() int {
	v := f.Value()
	if !f.roundReady {
		f.round = toInt(math.Round(v))
		f.roundReady = true
	}
	return f.round
}

// Ceil returns the computed value rounded up.
func (f *Float[K]) Ceil() int {
	v := f.Value()
	if !f.ceilReady {
		f.ceil = toInt(math.Ceil(v))
		f.ceilReady = true
	}
	return f.ceil
}

// toInt converts an integral float, saturating at the int range. NaN is 0.
func toInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	case v <= math.MinInt:
		return math.MinInt
	default:
		return int(v)
	}
}

// ForceDirty discards the cached value so the next read recomputes.
func (f *Float[K]) ForceDirty() {
	f.dirty = true
}

// ModifierCount returns the number of active modifications.
func (f *Float[K]) ModifierCount() int {
	return f.mods.count()
}

// Clone returns a deep copy. The copy shares transforms but no other state.
func (f *Float[K]) Clone() *Float[K] {
	return &Float[K]{
		base:     f.base,
		ignore:   f.ignore,
		computed: f.computed,
		dirty:    true,
		mods:     f.mods.clone(),
		resolve:  f.resolve,
		observer: f.observer,
	}
}

// Reset sets the base and removes every modification.
func (f *Float[K]) Reset(base float64) {
	if n := f.mods.clear(); n > 0 {
		f.obs().Retracted(n)
	}
	f.base = base
	f.dirty = true
}

// String formats the computed value.
func (f *Float[K]) String() string {
	return strconv.FormatFloat(f.Value(), 'g', -1, 64)
}
