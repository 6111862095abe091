// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

// Observer receives notifications about container activity.
// Implementations must be cheap; they run inline with every call.
type Observer interface {
	// Merged is called after every recompute with the number of applied steps.
	Merged(steps int)
	// Registered is called for every accepted registration. changed is false
	// when the registration was identical to the stored one.
	Registered(kind Kind, changed bool)
	// Retracted is called when modifications are removed.
	Retracted(removed int)
}

type nopObserver struct{}

func (nopObserver) Merged(int)            {}
func (nopObserver) Registered(Kind, bool) {}
func (nopObserver) Retracted(int)         {}

// Option configures a Float.
type Option[K comparable] func(*Float[K])

// WithResolver sets the function mapping owners to display names in traces.
func WithResolver[K comparable](resolve func(K) string) Option[K] {
	return func(f *Float[K]) {
		f.resolve = resolve
	}
}

// WithObserver attaches an Observer.
func WithObserver[K comparable](o Observer) Option[K] {
	return func(f *Float[K]) {
		f.observer = o
	}
}
