// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import "fmt"

// Kind identifies the operator a modification applies.
// The numeric order of the constants is the priority used when several kinds
// share the same merge order.
type Kind uint8

// Modification kinds, in application priority.
const (
	KindSet Kind = iota
	KindAdd
	KindMultiply
	KindModulo
	KindMin
	KindMax
	KindCustom
)

// kindCount is the number of distinct kinds.
const kindCount = int(KindCustom) + 1

var kindNames = [kindCount]string{"set", "add", "multiply", "modulo", "min", "max", "custom"}

// Kinds returns every kind in application priority.
func Kinds() []Kind {
	return []Kind{KindSet, KindAdd, KindMultiply, KindModulo, KindMin, KindMax, KindCustom}
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return int(k) < kindCount
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}
