// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package directive_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modfloat/internal/directive"
	"github.com/holomush/modfloat/pkg/modfloat"
)

func doubler() directive.CompileFunc {
	t := modfloat.NewTransform(func(v float64) float64 { return v * 2 })
	return func(string) (*modfloat.Transform, error) { return t, nil }
}

func TestApply_Scenario(t *testing.T) {
	f := modfloat.New[string](10)
	prog := directive.MustParse(`add 10.5 @5 as "uniqueName"; min 5 @5 as "floor"`)

	require.NoError(t, directive.Apply(prog, f, "hero", nil))
	assert.InDelta(t, 20.5, f.Value(), 0)
	assert.True(t, f.ExistsNamed("hero", "uniqueName"))
	assert.True(t, f.ExistsNamed("hero", "floor"))
}

func TestApply_EveryVerb(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"set 3", 3},
		{"add 2", 12},
		{"sub 2", 8},
		{"mul 3", 30},
		{"div 4", 2.5},
		{"mod 4", 2},
		{"min 11", 11},
		{"max 9", 9},
		{`custom "ignored"`, 20},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			f := modfloat.New[string](10)
			require.NoError(t, directive.Apply(directive.MustParse(tt.text), f, "o", doubler()))
			assert.InDelta(t, tt.want, f.Value(), 0)
		})
	}
}

func TestApply_ReapplyingIsIdempotent(t *testing.T) {
	obsF := modfloat.New[string](1)
	prog := directive.MustParse(`add 1 as "a"; custom "x" @2 as "b"`)
	compile := doubler()

	require.NoError(t, directive.Apply(prog, obsF, "o", compile))
	first := obsF.Value()
	mods := obsF.Modifications()

	require.NoError(t, directive.Apply(prog, obsF, "o", compile))
	assert.Equal(t, mods, obsF.Modifications())
	assert.InDelta(t, first, obsF.Value(), 0)
}

func TestApply_ClearDirectives(t *testing.T) {
	f := modfloat.New[string](1)
	require.NoError(t, f.Add("o", "x", 1, 0))
	require.NoError(t, f.Add("o", "", 1, 0))
	require.NoError(t, f.Add("other", "", 5, 0))

	require.NoError(t, directive.Apply(directive.MustParse(`clear as "x"`), f, "o", nil))
	assert.False(t, f.ExistsNamed("o", "x"))
	assert.True(t, f.ExistsNamed("o", ""))

	require.NoError(t, directive.Apply(directive.MustParse(`clearall`), f, "o", nil))
	assert.False(t, f.Exists("o"))
	assert.InDelta(t, 6, f.Value(), 0)
}

func TestApply_CustomWithoutCompiler(t *testing.T) {
	f := modfloat.New[string](1)
	err := directive.Apply(directive.MustParse(`add 1; custom "v"`), f, "o", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "script compiler")
	assert.Equal(t, 1, f.ModifierCount(), "directives before the failure stay applied")
}

func TestApply_CompileFailure(t *testing.T) {
	f := modfloat.New[string](1)
	boom := errors.New("boom")
	err := directive.Apply(directive.MustParse(`custom "v"`), f, "o", func(string) (*modfloat.Transform, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestApply_ZeroOwner(t *testing.T) {
	f := modfloat.New[string](1)
	err := directive.Apply(directive.MustParse(`add 1`), f, "", nil)
	require.ErrorIs(t, err, modfloat.ErrInvalidArgument)
}
