// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import (
	"fmt"
	"strconv"
	"strings"
)

// Trace texts for containers with nothing to report.
const (
	TraceEmpty   = "No Modifier"
	TraceIgnored = "Modifiers ignored"
)

var traceSymbols = [kindCount]string{"->", "+", "*", "%", ">", "<", ""}

// Steps replays the merge and returns every applied step. It returns nil
// when modifications are ignored.
func (f *Float[K]) Steps() []Step[K] {
	if f.ignore {
		return nil
	}
	var steps []Step[K]
	f.mods.merge(f.base, func(s Step[K]) {
		steps = append(steps, s)
	})
	return steps
}

// Trace describes, one line per step, how the computed value is derived.
// It does not touch the cached value.
func (f *Float[K]) Trace() string {
	if f.mods.count() == 0 {
		return TraceEmpty
	}
	if f.ignore {
		return TraceIgnored
	}
	var b strings.Builder
	for i, s := range f.Steps() {
		if i > 0 {
			b.WriteByte('\n')
		}
		f.writeStep(&b, s)
	}
	return b.String()
}

func (f *Float[K]) writeStep(b *strings.Builder, s Step[K]) {
	fmt.Fprintf(b, "[%d]\t", s.Order)
	if s.Kind == KindCustom {
		fmt.Fprintf(b, "Custom(%s)", formatFloat(s.Before))
	} else {
		fmt.Fprintf(b, "%s %s %s", formatFloat(s.Before), traceSymbols[s.Kind], formatFloat(s.Operand))
	}
	fmt.Fprintf(b, " = %s\t (%s", formatFloat(s.After), f.DisplayName(s.Owner))
	if s.Name != "" {
		b.WriteString(` | "`)
		b.WriteString(s.Name)
		b.WriteByte('"')
	}
	b.WriteByte(')')
}

// DisplayName renders owner for traces, using the resolver when one is set.
func (f *Float[K]) DisplayName(owner K) string {
	if f.resolve != nil {
		if name := f.resolve(owner); name != "" {
			return name
		}
	}
	return fmt.Sprint(owner)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
