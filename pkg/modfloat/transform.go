// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

// Transform is the function applied by a custom modification.
//
// Transforms compare by identity: two transforms built from the same function
// by separate NewTransform calls are different modifications. Keep the
// returned pointer and re-register it to benefit from idempotent registration.
type Transform struct {
	label string
	fn    func(float64) float64
}

// NewTransform wraps fn. It returns nil if fn is nil.
func NewTransform(fn func(float64) float64) *Transform {
	return NewNamedTransform("", fn)
}

// NewNamedTransform wraps fn with a label used by diagnostics.
// It returns nil if fn is nil.
func NewNamedTransform(label string, fn func(float64) float64) *Transform {
	if fn == nil {
		return nil
	}
	return &Transform{label: label, fn: fn}
}

// Label returns the diagnostic label, possibly empty.
func (t *Transform) Label() string {
	if t == nil {
		return ""
	}
	return t.label
}

// Apply runs the transform on v.
func (t *Transform) Apply(v float64) float64 {
	return t.fn(v)
}
