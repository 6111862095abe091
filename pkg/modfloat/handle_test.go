// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package modfloat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_ForwardsToBoundKeys(t *testing.T) {
	f := New[string](10)
	h := f.For("hero", "uniqueName")

	require.NoError(t, h.Add(10.5, 5))
	assert.InDelta(t, 20.5, f.Value(), 0)
	assert.True(t, h.Exists())
	assert.Equal(t, "hero", h.Owner())
	assert.Equal(t, "uniqueName", h.Name())

	tests := []struct {
		name  string
		apply func() error
		want  float64
	}{
		{"set", func() error { return h.Set(3, 0) }, 3},
		{"sub", func() error { return h.Sub(4, 0) }, 6},
		{"mul", func() error { return h.Mul(2, 0) }, 20},
		{"div", func() error { return h.Div(4, 0) }, 2.5},
		{"mod", func() error { return h.Mod(3, 0) }, 1},
		{"min", func() error { return h.Min(15, 0) }, 15},
		{"max", func() error { return h.Max(1, 0) }, 1},
		{"custom", func() error { return h.Custom(NewTransform(func(v float64) float64 { return v * v }), 0) }, 100},
	}
	for _, tt := range tests {
		require.NoError(t, tt.apply(), tt.name)
		assert.InDelta(t, tt.want, f.Value(), 1e-12, tt.name)
		assert.Equal(t, 1, f.ModifierCount(), tt.name)
	}

	require.NoError(t, h.Clear())
	assert.False(t, h.Exists())
	assert.InDelta(t, 10, f.Value(), 0)
}

func TestHandle_ForOwnerUsesUnnamedModification(t *testing.T) {
	f := New[string](1)
	require.NoError(t, f.ForOwner("a").Add(1, 0))
	assert.True(t, f.ExistsNamed("a", ""))
	require.NoError(t, f.For("a", "").Clear())
	assert.False(t, f.Exists("a"))
}
