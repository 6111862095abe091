// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

// Handle binds an owner and a name so a caller can manage its modification
// without repeating them.
type Handle[K comparable] struct {
	f     *Float[K]
	owner K
	name  string
}

// For returns a handle on the modification of owner under name.
func (f *Float[K]) For(owner K, name string) Handle[K] {
	return Handle[K]{f: f, owner: owner, name: name}
}

// ForOwner returns a handle on the unnamed modification of owner.
func (f *Float[K]) ForOwner(owner K) Handle[K] {
	return f.For(owner, "")
}

// Owner returns the bound owner.
func (h Handle[K]) Owner() K { return h.owner }

// Name returns the bound name.
func (h Handle[K]) Name() string { return h.name }

func (h Handle[K]) Set(x float64, order int32) error { return h.f.Set(h.owner, h.name, x, order) }
func (h Handle[K]) Add(x float64, order int32) error { return h.f.Add(h.owner, h.name, x, order) }
func (h Handle[K]) Sub(x float64, order int32) error { return h.f.Subtract(h.owner, h.name, x, order) }
func (h Handle[K]) Mul(x float64, order int32) error { return h.f.Multiply(h.owner, h.name, x, order) }
func (h Handle[K]) Div(x float64, order int32) error { return h.f.Divide(h.owner, h.name, x, order) }
func (h Handle[K]) Mod(x float64, order int32) error { return h.f.Modulo(h.owner, h.name, x, order) }
func (h Handle[K]) Min(x float64, order int32) error { return h.f.Minimum(h.owner, h.name, x, order) }
func (h Handle[K]) Max(x float64, order int32) error { return h.f.Maximum(h.owner, h.name, x, order) }

// Custom registers a custom transform.
func (h Handle[K]) Custom(t *Transform, order int32) error {
	return h.f.Custom(h.owner, h.name, t, order)
}

// Clear retracts the bound modification.
func (h Handle[K]) Clear() error {
	return h.f.Retract(h.owner, h.name)
}

// Exists reports whether the bound modification is active.
func (h Handle[K]) Exists() bool {
	return h.f.ExistsNamed(h.owner, h.name)
}
