// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import "math"

// The methods below return a deep copy whose base has been changed. The
// receiver and its modifications are left untouched.

func (f *Float[K]) withBase(fn func(float64) float64) *Float[K] {
	c := f.Clone()
	c.SetBase(fn(c.base))
	return c
}

// Plus returns a copy with x added to the base.
func (f *Float[K]) Plus(x float64) *Float[K] {
	return f.withBase(func(b float64) float64 { return b + x })
}

// Minus returns a copy with x subtracted from the base.
func (f *Float[K]) Minus(x float64) *Float[K] {
	return f.withBase(func(b float64) float64 { return b - x })
}

// Times returns a copy with the base multiplied by x.
func (f *Float[K]) Times(x float64) *Float[K] {
	return f.withBase(func(b float64) float64 { return b * x })
}

// Over returns a copy with the base divided by x.
func (f *Float[K]) Over(x float64) *Float[K] {
	return f.withBase(func(b float64) float64 { return b / x })
}

// Rem returns a copy with the base replaced by its remainder modulo x.
func (f *Float[K]) Rem(x float64) *Float[K] {
	return f.withBase(func(b float64) float64 { return math.Mod(b, x) })
}

// Negated returns a copy with the base negated.
func (f *Float[K]) Negated() *Float[K] {
	return f.withBase(func(b float64) float64 { return -b })
}

// Incremented returns a copy with the base increased by one.
func (f *Float[K]) Incremented() *Float[K] {
	return f.Plus(1)
}

// Decremented returns a copy with the base decreased by one.
func (f *Float[K]) Decremented() *Float[K] {
	return f.Minus(1)
}
