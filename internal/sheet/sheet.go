// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package sheet groups named modifiable stats owned by one entity.
//
// Stats are addressed by dotted names such as "attributes.strength". Owners
// (items, effects, auras) are identified by ULIDs and can be torn down across
// every stat at once.
package sheet

import (
	"log/slog"
	"regexp"
	"slices"
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/modfloat/internal/directive"
	"github.com/holomush/modfloat/internal/metrics"
	"github.com/holomush/modfloat/pkg/modfloat"
)

var statName = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)

// ValidName reports whether name is a usable stat name: dot-separated
// segments of letters, digits, '_' and '-'.
func ValidName(name string) bool {
	return statName.MatchString(name)
}

// Base is the persisted part of one stat.
type Base struct {
	Stat   string  `json:"stat" yaml:"stat"`
	Value  float64 `json:"value" yaml:"value"`
	Ignore bool    `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// Options configures a Sheet.
type Options struct {
	// ID identifies the sheet. Zero generates one.
	ID ulid.ULID
	// Compile turns custom directive snippets into transforms. Nil rejects
	// custom directives.
	Compile directive.CompileFunc
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics attaches a Prometheus observer to every stat.
	Metrics bool
}

// Stat is a modifiable value keyed by owner ULID.
type Stat = modfloat.Float[ulid.ULID]

// Sheet is a set of named stats. It is safe for concurrent use; stats
// returned by Stat are not and must not be shared across goroutines.
type Sheet struct {
	id      ulid.ULID
	compile directive.CompileFunc
	logger  *slog.Logger
	metrics bool

	mu     sync.RWMutex
	stats  map[string]*Stat
	owners map[ulid.ULID]string
}

// New creates an empty sheet.
func New(opts Options) *Sheet {
	if opts.ID == (ulid.ULID{}) {
		opts.ID = NewID()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Sheet{
		id:      opts.ID,
		compile: opts.Compile,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		stats:   make(map[string]*Stat),
		owners:  make(map[ulid.ULID]string),
	}
}

// ID returns the sheet identifier.
func (s *Sheet) ID() ulid.ULID {
	return s.id
}

// Define creates a stat with the given base, or changes the base of an
// existing one.
func (s *Sheet) Define(stat string, base float64) error {
	if !ValidName(stat) {
		return errBadName(stat)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.define(stat, base)
	return nil
}

func (s *Sheet) define(stat string, base float64) *Stat {
	if f, ok := s.stats[stat]; ok {
		f.SetBase(base)
		return f
	}
	opts := []modfloat.Option[ulid.ULID]{modfloat.WithResolver(s.displayName)}
	if s.metrics {
		opts = append(opts, modfloat.WithObserver[ulid.ULID](metrics.NewObserver(stat)))
	}
	f := modfloat.New(base, opts...)
	s.stats[stat] = f
	return f
}

// Stat returns the named stat.
func (s *Sheet) Stat(name string) (*Stat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.stats[name]
	if !ok {
		return nil, errNotFound(name)
	}
	return f, nil
}

// Names returns every stat name in sorted order.
func (s *Sheet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedNames()
}

func (s *Sheet) sortedNames() []string {
	names := make([]string, 0, len(s.stats))
	for name := range s.stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match returns the sorted stat names matching a glob pattern. "*" matches
// within one dotted segment and "**" across segments.
func (s *Sheet) Match(pattern string) ([]string, error) {
	g, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.match(g), nil
}

func (s *Sheet) match(g glob.Glob) []string {
	var out []string
	for _, name := range s.sortedNames() {
		if g.Match(name) {
			out = append(out, name)
		}
	}
	return out
}

func compilePattern(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, oops.In("sheet").
			Code(modfloat.CodeInvalidArgument).
			With("pattern", pattern).
			Wrapf(err, "invalid stat pattern")
	}
	return g, nil
}

// Value returns the computed value of the named stat.
func (s *Sheet) Value(name string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.stats[name]
	if !ok {
		return 0, errNotFound(name)
	}
	return f.Value(), nil
}

// Trace returns the application trace of the named stat.
func (s *Sheet) Trace(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.stats[name]
	if !ok {
		return "", errNotFound(name)
	}
	return f.Trace(), nil
}

// SetIgnore toggles the modification bypass of the named stat.
func (s *Sheet) SetIgnore(name string, ignore bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.stats[name]
	if !ok {
		return errNotFound(name)
	}
	f.SetIgnoreModifications(ignore)
	return nil
}

// RegisterOwner creates an owner identity shown as display in traces.
func (s *Sheet) RegisterOwner(display string) ulid.ULID {
	id := NewID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[id] = display
	return id
}

// DisplayName returns the name an owner was registered with, or its ULID
// string for unknown owners.
func (s *Sheet) DisplayName(id ulid.ULID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName(id)
}

// displayName requires s.mu to be held.
func (s *Sheet) displayName(id ulid.ULID) string {
	if name, ok := s.owners[id]; ok && name != "" {
		return name
	}
	return id.String()
}

// Apply runs prog against one stat on behalf of owner.
func (s *Sheet) Apply(stat string, owner ulid.ULID, prog *directive.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.stats[stat]
	if !ok {
		return errNotFound(stat)
	}
	return s.apply(stat, f, owner, prog)
}

func (s *Sheet) apply(stat string, f *Stat, owner ulid.ULID, prog *directive.Program) error {
	if err := directive.Apply(prog, f, owner, s.compile); err != nil {
		return oops.In("sheet").With("stat", stat).With("owner", s.displayName(owner)).Wrap(err)
	}
	s.logger.Debug("directives applied",
		"sheet", s.id.String(),
		"stat", stat,
		"owner", s.displayName(owner),
		"directives", len(prog.Directives))
	return nil
}

// ApplyMatching runs prog against every stat matching pattern, in name
// order, and returns how many stats it was applied to. It stops at the
// first failure.
func (s *Sheet) ApplyMatching(pattern string, owner ulid.ULID, prog *directive.Program) (int, error) {
	g, err := compilePattern(pattern)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, name := range s.match(g) {
		if err := s.apply(name, s.stats[name], owner, prog); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// RetractOwner removes every modification of owner from every stat and
// forgets its display name. It returns the number of removed modifications.
func (s *Sheet) RetractOwner(owner ulid.ULID) int {
	if owner == (ulid.ULID{}) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, f := range s.stats {
		before := f.ModifierCount()
		_ = f.RetractAll(owner)
		removed += before - f.ModifierCount()
	}
	delete(s.owners, owner)
	if removed > 0 {
		s.logger.Debug("owner retracted", "sheet", s.id.String(), "owner", owner.String(), "removed", removed)
	}
	return removed
}

// Snapshot returns the bases of every stat in name order.
func (s *Sheet) Snapshot() []Base {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Base, 0, len(s.stats))
	for _, name := range s.sortedNames() {
		f := s.stats[name]
		out = append(out, Base{Stat: name, Value: f.Base(), Ignore: f.IgnoreModifications()})
	}
	return out
}

// Restore defines every stat in bases. Existing stats keep their
// modifications; their base and ignore flag are overwritten.
func (s *Sheet) Restore(bases []Base) error {
	for _, b := range bases {
		if !ValidName(b.Stat) {
			return errBadName(b.Stat)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range bases {
		s.define(b.Stat, b.Value).SetIgnoreModifications(b.Ignore)
	}
	return nil
}

// Owners returns the registered owner IDs in creation order.
func (s *Sheet) Owners() []ulid.ULID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ulid.ULID, 0, len(s.owners))
	for id := range s.owners {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b ulid.ULID) int { return a.Compare(b) })
	return ids
}
