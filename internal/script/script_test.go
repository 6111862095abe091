// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package script_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/holomush/modfloat/internal/script"
	"github.com/holomush/modfloat/pkg/errutil"
	"github.com/holomush/modfloat/pkg/modfloat"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newCompiler(t *testing.T) (*script.Compiler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c := script.NewCompiler(script.Options{
		Timeout: 20 * time.Millisecond,
		Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
	})
	t.Cleanup(c.Close)
	return c, &buf
}

func TestCompiler_Expression(t *testing.T) {
	c, _ := newCompiler(t)
	s, err := c.Compile("v * 1.5 + 2")
	require.NoError(t, err)

	got, err := s.Eval(4)
	require.NoError(t, err)
	assert.InDelta(t, 8, got, 0)
}

func TestCompiler_FunctionBody(t *testing.T) {
	c, _ := newCompiler(t)
	s, err := c.Compile("if v > 100 then return 100 end\nreturn math.floor(v)")
	require.NoError(t, err)

	got, err := s.Eval(250)
	require.NoError(t, err)
	assert.InDelta(t, 100, got, 0)

	got, err = s.Eval(12.7)
	require.NoError(t, err)
	assert.InDelta(t, 12, got, 0)
}

func TestCompiler_SameSourceSameTransform(t *testing.T) {
	c, _ := newCompiler(t)
	t1, err := c.Transform("v + 1")
	require.NoError(t, err)
	t2, err := c.Transform("  v + 1 ")
	require.NoError(t, err)
	t3, err := c.Transform("v + 2")
	require.NoError(t, err)

	assert.Same(t, t1, t2)
	assert.NotSame(t, t1, t3)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "v + 1", t1.Label())
}

func TestCompiler_TransformIsIdempotentWhenReRegistered(t *testing.T) {
	c, _ := newCompiler(t)
	f := modfloat.New[string](10)

	for range 3 {
		tr, err := c.Transform("v * 3")
		require.NoError(t, err)
		require.NoError(t, f.Custom("spell", "", tr, 0))
	}
	assert.InDelta(t, 30, f.Value(), 0)
	assert.Equal(t, 1, f.ModifierCount())
}

func TestCompiler_SyntaxError(t *testing.T) {
	c, _ := newCompiler(t)
	_, err := c.Compile("v +* 2")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, script.CodeCompile)
	errutil.AssertErrorContext(t, err, "source", "v +* 2")
}

func TestCompiler_EmptySource(t *testing.T) {
	c, _ := newCompiler(t)
	_, err := c.Compile("   ")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, script.CodeCompile)
}

func TestScript_NonNumberResultLeavesValue(t *testing.T) {
	c, logs := newCompiler(t)
	tr, err := c.Transform(`"high"`)
	require.NoError(t, err)

	assert.InDelta(t, 7, tr.Apply(7), 0)
	assert.Contains(t, logs.String(), "custom transform failed")

	s, err := c.Compile(`"high"`)
	require.NoError(t, err)
	_, err = s.Eval(7)
	require.ErrorIs(t, err, script.ErrResultType)
}

func TestScript_Sandboxed(t *testing.T) {
	c, _ := newCompiler(t)
	for _, src := range []string{
		"os.exit(1) return v",
		"io.write('x') return v",
		"dofile('/etc/passwd') return v",
		"require('os') return v",
	} {
		s, err := c.Compile(src)
		require.NoError(t, err, src)
		_, err = s.Eval(1)
		assert.Error(t, err, src)
	}
}

func TestScript_TimesOut(t *testing.T) {
	c, _ := newCompiler(t)
	s, err := c.Compile("while true do end return v")
	require.NoError(t, err)

	got, err := s.Eval(3)
	require.ErrorIs(t, err, script.ErrTimeout)
	assert.InDelta(t, 3, got, 0)

	// The state stays usable after a timeout.
	ok, err := c.Compile("v - 1")
	require.NoError(t, err)
	got, err = ok.Eval(3)
	require.NoError(t, err)
	assert.InDelta(t, 2, got, 0)
}

func TestCompiler_DoesNotRunSnippetWhileCompiling(t *testing.T) {
	c, _ := newCompiler(t)

	done := make(chan error, 1)
	go func() {
		_, err := c.Compile("return v end, (function() while true do end end)(), function(v) return v")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, script.CodeCompile)
	case <-time.After(2 * time.Second):
		t.Fatal("compile ran the snippet")
	}

	// The compiler is not left locked.
	s, err := c.Compile("v + 1")
	require.NoError(t, err)
	got, err := s.Eval(1)
	require.NoError(t, err)
	assert.InDelta(t, 2, got, 0)
	assert.Equal(t, 1, c.Len())
}

func TestCompiler_Closed(t *testing.T) {
	c := script.NewCompiler(script.Options{})
	s, err := c.Compile("v * 2")
	require.NoError(t, err)
	c.Close()

	_, err = c.Compile("v * 3")
	require.Error(t, err)

	_, err = s.Eval(1)
	require.Error(t, err)
	assert.InDelta(t, 5, s.Transform().Apply(5), 0)
}

func TestStateFactory_BlocksUnsafeGlobals(t *testing.T) {
	L, err := script.NewStateFactory().NewState()
	require.NoError(t, err)
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "package", "dofile", "loadstring", "require"} {
		assert.Equal(t, "nil", L.GetGlobal(name).Type().String(), name)
	}
	for _, name := range []string{"math", "string", "table"} {
		assert.NotEqual(t, "nil", L.GetGlobal(name).Type().String(), name)
	}
}
