// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package script compiles Lua snippets into custom modification transforms.
//
// A snippet is either an expression over the current value v:
//
//	v * 1.5 + 2
//
// or a function body that returns the new value:
//
//	if v > 100 then return 100 end
//	return v
//
// Snippets run in a sandboxed state without os, io, debug or package access.
package script

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/holomush/modfloat/internal/metrics"
	"github.com/holomush/modfloat/pkg/modfloat"
)

// CodeCompile is the oops error code for snippets that fail to compile.
const CodeCompile = "SCRIPT_COMPILE"

// DefaultTimeout bounds a single transform evaluation.
const DefaultTimeout = 50 * time.Millisecond

// Evaluation failures.
var (
	ErrTimeout    = errors.New("script exceeded its time budget")
	ErrResultType = errors.New("script did not return a number")
)

var returnPattern = regexp.MustCompile(`\breturn\b`)

// Options configures a Compiler.
type Options struct {
	// Timeout bounds one evaluation. Zero means DefaultTimeout.
	Timeout time.Duration
	// Logger receives evaluation failures. Nil means slog.Default().
	Logger *slog.Logger
}

// Compiler turns snippets into transforms. Compiling the same snippet twice
// returns the same transform, so re-registering it is a no-op.
//
// Compiler is safe for concurrent use.
type Compiler struct {
	factory *StateFactory
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	scripts map[string]*Script
	closed  bool
}

// NewCompiler creates a Compiler.
func NewCompiler(opts Options) *Compiler {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Compiler{
		factory: NewStateFactory(),
		timeout: opts.Timeout,
		logger:  opts.Logger,
		scripts: make(map[string]*Script),
	}
}

// Transform compiles source, or returns the transform compiled earlier for
// the same source.
func (c *Compiler) Transform(source string) (*modfloat.Transform, error) {
	s, err := c.Compile(source)
	if err != nil {
		return nil, err
	}
	return s.Transform(), nil
}

// Compile compiles source into a Script owned by the compiler.
func (c *Compiler) Compile(source string) (*Script, error) {
	key := strings.TrimSpace(source)
	if key == "" {
		return nil, oops.In("script").Code(CodeCompile).Errorf("empty snippet")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, oops.In("script").With("operation", "compile").New("compiler is closed")
	}
	if s, ok := c.scripts[key]; ok {
		return s, nil
	}

	L, err := c.factory.NewState()
	if err != nil {
		return nil, err
	}
	fn, err := compile(L, key)
	if err != nil {
		L.Close()
		return nil, err
	}

	s := &Script{source: key, state: L, fn: fn, timeout: c.timeout, logger: c.logger}
	s.transform = modfloat.NewNamedTransform(key, s.eval)
	c.scripts[key] = s
	return s, nil
}

// compile parses and compiles source into a function of v without running
// any of it. The snippet is the body of a chunk whose single vararg is v.
func compile(L *lua.LState, source string) (*lua.LFunction, error) {
	chunk := wrap(source)
	stmts, err := parse.Parse(strings.NewReader(chunk), "<snippet>")
	if err != nil {
		return nil, oops.In("script").Code(CodeCompile).With("source", source).Hint("syntax error").Wrap(err)
	}
	proto, err := lua.Compile(stmts, "<snippet>")
	if err != nil {
		return nil, oops.In("script").Code(CodeCompile).With("source", source).Wrap(err)
	}
	return L.NewFunctionFromProto(proto), nil
}

// wrap turns a snippet into a chunk body binding v.
func wrap(src string) string {
	if returnPattern.MatchString(src) {
		return "local v = ...\n" + src
	}
	return "local v = ...\nreturn (" + src + ")"
}

// Len returns the number of cached scripts.
func (c *Compiler) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scripts)
}

// Close releases every compiled script. Transforms obtained earlier return
// their input unchanged afterwards.
func (c *Compiler) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.scripts {
		s.close()
	}
	c.scripts = nil
	c.closed = true
}

// Script is one compiled snippet bound to its own Lua state.
type Script struct {
	source    string
	transform *modfloat.Transform
	timeout   time.Duration
	logger    *slog.Logger

	mu    sync.Mutex
	state *lua.LState
	fn    *lua.LFunction
}

// Source returns the normalized snippet text.
func (s *Script) Source() string { return s.source }

// Transform returns the transform running this script.
func (s *Script) Transform() *modfloat.Transform { return s.transform }

// Eval runs the script on v.
func (s *Script) Eval(v float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return v, oops.In("script").With("source", s.source).New("script is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.state.SetContext(ctx)
	defer s.state.RemoveContext()

	if err := s.state.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(v)); err != nil {
		if ctx.Err() != nil {
			return v, oops.In("script").
				With("source", s.source).
				With("timeout", s.timeout).
				Wrapf(ErrTimeout, "%v", err)
		}
		return v, oops.In("script").With("source", s.source).With("input", v).Wrap(err)
	}
	ret := s.state.Get(-1)
	s.state.Pop(1)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return v, oops.In("script").
			With("source", s.source).
			With("result_type", ret.Type().String()).
			Wrapf(ErrResultType, "snippet returned %s", ret.Type())
	}
	return float64(n), nil
}

// eval adapts Eval to a transform: failures leave the value unchanged.
func (s *Script) eval(v float64) float64 {
	out, err := s.Eval(v)
	if err != nil {
		metrics.RecordScriptFailure(failureReason(err))
		s.logger.Warn("custom transform failed, value left unchanged",
			"source", s.source,
			"input", v,
			"error", err)
		return v
	}
	return out
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return metrics.ReasonTimeout
	case errors.Is(err, ErrResultType):
		return metrics.ReasonType
	default:
		return metrics.ReasonError
	}
}

func (s *Script) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		s.state.Close()
		s.state = nil
	}
}
