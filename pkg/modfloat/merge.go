// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import "math"

// cursor walks one kind's list during a merge.
type cursor[K comparable] struct {
	kind Kind
	list []entry[K]
	pos  int
}

func (c *cursor[K]) order() int32 {
	return c.list[c.pos].order
}

// before orders cursors by pending order, then by kind priority.
func (c *cursor[K]) before(o *cursor[K]) bool {
	if a, b := c.order(), o.order(); a != b {
		return a < b
	}
	return c.kind < o.kind
}

// cursorHeap is a min-heap of non-exhausted cursors.
type cursorHeap[K comparable] []*cursor[K]

func (h *cursorHeap[K]) push(c *cursor[K]) {
	*h = append(*h, c)
	h.up(len(*h) - 1)
}

// pop removes and returns the cursor holding the next entry to apply.
func (h *cursorHeap[K]) pop() *cursor[K] {
	old := *h
	n := len(old) - 1
	top := old[0]
	old[0], old[n] = old[n], old[0]
	*h = old[:n]
	h.down(0)
	return top
}

func (h cursorHeap[K]) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h[j].before(h[i]) {
			break
		}
		h[i], h[j] = h[j], h[i]
		j = i
	}
}

func (h cursorHeap[K]) down(i int) {
	n := len(h)
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 { // j1 < 0 after int overflow
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && h[j2].before(h[j1]) {
			j = j2 // right child
		}
		if !h[j].before(h[i]) {
			break
		}
		h[i], h[j] = h[j], h[i]
		i = j
	}
}

// walk visits every entry in merge order: ascending order, and within one
// order value Set, Add, Multiply, Modulo, Min, Max, Custom, each kind in
// stored sequence.
func (s *store[K]) walk(visit func(kind Kind, e entry[K])) {
	h := make(cursorHeap[K], 0, kindCount)
	for k := range s.lists {
		if len(s.lists[k]) > 0 {
			h.push(&cursor[K]{kind: Kind(k), list: s.lists[k]})
		}
	}
	for len(h) > 0 {
		c := h.pop()
		ord := c.order()
		for c.pos < len(c.list) && c.list[c.pos].order == ord {
			visit(c.kind, c.list[c.pos])
			c.pos++
		}
		if c.pos < len(c.list) {
			h.push(c)
		}
	}
}

// apply folds a single modification into v.
func apply[K comparable](kind Kind, e entry[K], v float64) float64 {
	switch kind {
	case KindSet:
		return e.operand
	case KindAdd:
		return v + e.operand
	case KindMultiply:
		return v * e.operand
	case KindModulo:
		return math.Mod(v, e.operand)
	case KindMin:
		return math.Max(v, e.operand)
	case KindMax:
		return math.Min(v, e.operand)
	case KindCustom:
		return e.transform.Apply(v)
	default:
		return v
	}
}

// Step records one applied modification.
type Step[K comparable] struct {
	Kind      Kind
	Owner     K
	Name      string
	Order     int32
	Operand   float64
	Transform *Transform
	Before    float64
	After     float64
}

// merge folds every entry over base. If visit is non-nil it receives each
// applied step.
func (s *store[K]) merge(base float64, visit func(Step[K])) (float64, int) {
	v := base
	steps := 0
	s.walk(func(kind Kind, e entry[K]) {
		next := apply(kind, e, v)
		if visit != nil {
			visit(Step[K]{
				Kind:      kind,
				Owner:     e.owner,
				Name:      e.name,
				Order:     e.order,
				Operand:   e.operand,
				Transform: e.transform,
				Before:    v,
				After:     next,
			})
		}
		v = next
		steps++
	})
	return v, steps
}
