// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

// Modification describes one active modification.
type Modification[K comparable] struct {
	Kind      Kind
	Owner     K
	Name      string
	Order     int32
	Operand   float64
	Transform *Transform
}

func isZero[K comparable](k K) bool {
	var zero K
	return k == zero
}

// Register adds or replaces the modification of owner under name.
//
// An owner holds at most one modification per name across all kinds:
// registering a different kind under an existing name replaces it.
// Registering parameters identical to the stored modification changes nothing
// and does not invalidate the cached value.
//
// Custom modifications must be registered with RegisterCustom.
func (f *Float[K]) Register(kind Kind, owner K, name string, operand float64, order int32) error {
	if isZero(owner) {
		return errNoOwner("register")
	}
	if !kind.Valid() {
		return errBadKind(kind)
	}
	if kind == KindCustom {
		return errNoTransform(name)
	}
	f.upsert(kind, entry[K]{owner: owner, name: name, order: order, operand: operand})
	return nil
}

// RegisterCustom adds or replaces a custom modification applying t.
func (f *Float[K]) RegisterCustom(owner K, name string, t *Transform, order int32) error {
	if isZero(owner) {
		return errNoOwner("register")
	}
	if t == nil {
		return errNoTransform(name)
	}
	f.upsert(KindCustom, entry[K]{owner: owner, name: name, order: order, transform: t})
	return nil
}

func (f *Float[K]) upsert(kind Kind, e entry[K]) {
	changed := f.mods.upsert(kind, e)
	if changed {
		f.dirty = true
	}
	f.obs().Registered(kind, changed)
}

// Set makes the value x at the given order.
func (f *Float[K]) Set(owner K, name string, x float64, order int32) error {
	return f.Register(KindSet, owner, name, x, order)
}

// Add adds x.
func (f *Float[K]) Add(owner K, name string, x float64, order int32) error {
	return f.Register(KindAdd, owner, name, x, order)
}

// Subtract subtracts x. It is stored as an addition of -x.
func (f *Float[K]) Subtract(owner K, name string, x float64, order int32) error {
	return f.Register(KindAdd, owner, name, -x, order)
}

// Multiply multiplies by x.
func (f *Float[K]) Multiply(owner K, name string, x float64, order int32) error {
	return f.Register(KindMultiply, owner, name, x, order)
}

// Divide divides by x. It is stored as a multiplication by 1/x, so a zero
// divisor yields an infinite or NaN result rather than an error.
func (f *Float[K]) Divide(owner K, name string, x float64, order int32) error {
	return f.Register(KindMultiply, owner, name, 1/x, order)
}

// Modulo takes the floating-point remainder by x.
func (f *Float[K]) Modulo(owner K, name string, x float64, order int32) error {
	return f.Register(KindModulo, owner, name, x, order)
}

// Minimum makes the value at least x.
func (f *Float[K]) Minimum(owner K, name string, x float64, order int32) error {
	return f.Register(KindMin, owner, name, x, order)
}

// Maximum makes the value at most x.
func (f *Float[K]) Maximum(owner K, name string, x float64, order int32) error {
	return f.Register(KindMax, owner, name, x, order)
}

// Custom applies t.
func (f *Float[K]) Custom(owner K, name string, t *Transform, order int32) error {
	return f.RegisterCustom(owner, name, t, order)
}

// Retract removes the modification of owner under name, if any.
func (f *Float[K]) Retract(owner K, name string) error {
	if isZero(owner) {
		return errNoOwner("retract")
	}
	if f.mods.remove(owner, name) {
		f.dirty = true
		f.obs().Retracted(1)
	}
	return nil
}

// RetractAll removes every modification of owner. Owners should call it when
// they are torn down.
func (f *Float[K]) RetractAll(owner K) error {
	if isZero(owner) {
		return errNoOwner("retract_all")
	}
	if n := f.mods.removeOwner(owner); n > 0 {
		f.dirty = true
		f.obs().Retracted(n)
	}
	return nil
}

// Exists reports whether owner has any modification.
func (f *Float[K]) Exists(owner K) bool {
	return f.mods.hasOwner(owner)
}

// ExistsNamed reports whether owner has a modification under name.
func (f *Float[K]) ExistsNamed(owner K, name string) bool {
	_, _, ok := f.mods.find(owner, name)
	return ok
}

// Lookup returns the modification of owner under name.
func (f *Float[K]) Lookup(owner K, name string) (Modification[K], bool) {
	k, i, ok := f.mods.find(owner, name)
	if !ok {
		return Modification[K]{}, false
	}
	return toModification(k, f.mods.lists[k][i]), true
}

// Modifications returns every active modification in application order.
func (f *Float[K]) Modifications() []Modification[K] {
	out := make([]Modification[K], 0, f.mods.count())
	f.mods.walk(func(kind Kind, e entry[K]) {
		out = append(out, toModification(kind, e))
	})
	return out
}

func toModification[K comparable](kind Kind, e entry[K]) Modification[K] {
	return Modification[K]{
		Kind:      kind,
		Owner:     e.owner,
		Name:      e.name,
		Order:     e.order,
		Operand:   e.operand,
		Transform: e.transform,
	}
}
