// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import (
	"math"
	"slices"
	"sort"
)

// entry is one stored modification. Entries are values and are never shared
// between containers.
type entry[K comparable] struct {
	owner     K
	name      string
	order     int32
	operand   float64
	transform *Transform
}

func (e entry[K]) sameKey(owner K, name string) bool {
	return e.owner == owner && e.name == name
}

// sameParams reports whether e and o would produce the same modification.
// Operands compare bitwise and transforms by identity.
func (e entry[K]) sameParams(o entry[K]) bool {
	return e.order == o.order &&
		math.Float64bits(e.operand) == math.Float64bits(o.operand) &&
		e.transform == o.transform
}

// store holds one list per kind, each sorted ascending by order and stable on
// ties. A given (owner, name) pair appears at most once across all lists.
type store[K comparable] struct {
	lists [kindCount][]entry[K]
}

// find locates the entry for (owner, name) in any kind.
func (s *store[K]) find(owner K, name string) (Kind, int, bool) {
	for k := range s.lists {
		for i, e := range s.lists[k] {
			if e.sameKey(owner, name) {
				return Kind(k), i, true
			}
		}
	}
	return 0, 0, false
}

// upsert registers e under kind and reports whether the store changed.
func (s *store[K]) upsert(kind Kind, e entry[K]) bool {
	k, i, ok := s.find(e.owner, e.name)
	if ok && k == kind {
		cur := s.lists[k][i]
		if cur.sameParams(e) {
			return false
		}
		if cur.order == e.order {
			s.lists[k][i] = e
			return true
		}
	}
	if ok {
		s.lists[k] = slices.Delete(s.lists[k], i, i+1)
	}
	s.insert(kind, e)
	return true
}

// insert places e after every entry whose order is <= e.order.
func (s *store[K]) insert(kind Kind, e entry[K]) {
	list := s.lists[kind]
	at := sort.Search(len(list), func(i int) bool { return list[i].order > e.order })
	s.lists[kind] = slices.Insert(list, at, e)
}

// remove deletes the entry for (owner, name) and reports whether one existed.
func (s *store[K]) remove(owner K, name string) bool {
	k, i, ok := s.find(owner, name)
	if !ok {
		return false
	}
	s.lists[k] = slices.Delete(s.lists[k], i, i+1)
	return true
}

// removeOwner deletes every entry of owner and returns how many were removed.
func (s *store[K]) removeOwner(owner K) int {
	removed := 0
	for k := range s.lists {
		before := len(s.lists[k])
		s.lists[k] = slices.DeleteFunc(s.lists[k], func(e entry[K]) bool { return e.owner == owner })
		removed += before - len(s.lists[k])
	}
	return removed
}

func (s *store[K]) hasOwner(owner K) bool {
	for k := range s.lists {
		if slices.ContainsFunc(s.lists[k], func(e entry[K]) bool { return e.owner == owner }) {
			return true
		}
	}
	return false
}

func (s *store[K]) count() int {
	n := 0
	for k := range s.lists {
		n += len(s.lists[k])
	}
	return n
}

func (s *store[K]) clear() int {
	n := s.count()
	for k := range s.lists {
		s.lists[k] = nil
	}
	return n
}

func (s *store[K]) clone() store[K] {
	var c store[K]
	for k := range s.lists {
		c.lists[k] = slices.Clone(s.lists[k])
	}
	return c
}
