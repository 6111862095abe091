// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package profile loads stat sheets from YAML profiles.
//
// A profile declares stats with their base values and owners whose
// directives modify them:
//
//	format: "1.0"
//	stats:
//	  attributes.strength: {base: 10}
//	  combat.armor: {base: 2}
//	owners:
//	  - name: Boots of Haste
//	    directives:
//	      - stats: "attributes.*"
//	        program: add 2 @1 as "haste"
package profile

import (
	"errors"
	"log/slog"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/modfloat/internal/directive"
	"github.com/holomush/modfloat/internal/sheet"
)

// CodeInvalid is the oops error code for profiles that fail validation.
const CodeInvalid = "PROFILE_INVALID"

// Format versions.
const (
	// CurrentFormat is written by tools emitting profiles.
	CurrentFormat = "1.0"
	// SupportedFormats is the semver constraint profile formats must satisfy.
	SupportedFormats = "^1.0"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid profile")

var supported = mustConstraint(SupportedFormats)

// Profile is a parsed profile file.
type Profile struct {
	Format string             `json:"format" yaml:"format" jsonschema:"description=Profile format version,example=1.0"`
	Name   string             `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"description=Human readable profile name"`
	Stats  map[string]StatDef `json:"stats" yaml:"stats" jsonschema:"description=Stats keyed by dotted name"`
	Owners []OwnerDef         `json:"owners,omitempty" yaml:"owners,omitempty" jsonschema:"description=Owners applying directives in order"`
}

// StatDef declares one stat.
type StatDef struct {
	Base   float64 `json:"base" yaml:"base" jsonschema:"description=Unmodified value"`
	Ignore bool    `json:"ignore,omitempty" yaml:"ignore,omitempty" jsonschema:"description=Bypass every modification"`
}

// OwnerDef declares an owner and the directives it applies.
type OwnerDef struct {
	Name       string         `json:"name" yaml:"name" jsonschema:"minLength=1,description=Display name used in traces"`
	Directives []DirectiveDef `json:"directives,omitempty" yaml:"directives,omitempty"`
}

// DirectiveDef applies a directive program to every stat matching a glob.
type DirectiveDef struct {
	Stats   string `json:"stats" yaml:"stats" jsonschema:"minLength=1,description=Glob over dotted stat names"`
	Program string `json:"program" yaml:"program" jsonschema:"description=Directive program text"`
}

// Load validates data against the profile schema and parses it.
func Load(data []byte) (*Profile, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, invalid(err, "invalid YAML")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads and loads the profile at path.
func LoadFile(path string) (*Profile, error) {
	//nolint:gosec // path comes from the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("profile").With("path", path).Wrapf(err, "reading profile")
	}
	p, err := Load(data)
	if err != nil {
		return nil, oops.In("profile").With("path", path).Wrap(err)
	}
	return p, nil
}

// Validate checks constraints the schema cannot express.
func (p *Profile) Validate() error {
	v, err := semver.NewVersion(p.Format)
	if err != nil {
		return invalid(err, "format %q is not a version", p.Format)
	}
	if !supported.Check(v) {
		return invalid(ErrInvalid, "format %s is not supported, want %s", v, SupportedFormats)
	}

	if len(p.Stats) == 0 {
		return invalid(ErrInvalid, "profile declares no stats")
	}
	for name := range p.Stats {
		if !sheet.ValidName(name) {
			return oops.In("profile").
				Code(CodeInvalid).
				With("stat", name).
				Wrapf(ErrInvalid, "invalid stat name %q", name)
		}
	}

	seen := make(map[string]bool, len(p.Owners))
	for i, o := range p.Owners {
		if o.Name == "" {
			return oops.In("profile").Code(CodeInvalid).With("owner_index", i).Wrapf(ErrInvalid, "owner has no name")
		}
		if seen[o.Name] {
			return oops.In("profile").Code(CodeInvalid).With("owner", o.Name).Wrapf(ErrInvalid, "duplicate owner %q", o.Name)
		}
		seen[o.Name] = true
		for j, d := range o.Directives {
			if _, err := glob.Compile(d.Stats, '.'); err != nil {
				return oops.In("profile").
					Code(CodeInvalid).
					With("owner", o.Name).
					With("directive_index", j).
					With("stats", d.Stats).
					Wrapf(err, "invalid stats pattern")
			}
			if _, err := directive.Parse(d.Program); err != nil {
				return oops.In("profile").
					Code(CodeInvalid).
					With("owner", o.Name).
					With("directive_index", j).
					Wrap(err)
			}
		}
	}
	return nil
}

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

func invalid(err error, format string, args ...any) error {
	return oops.In("profile").Code(CodeInvalid).Wrapf(err, format, args...)
}

// Build creates a sheet from p. Stats are defined first, then owners apply
// their directives in declaration order.
func Build(p *Profile, opts sheet.Options) (*sheet.Sheet, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := sheet.New(opts)

	bases := make([]sheet.Base, 0, len(p.Stats))
	for name, def := range p.Stats {
		bases = append(bases, sheet.Base{Stat: name, Value: def.Base, Ignore: def.Ignore})
	}
	if err := s.Restore(bases); err != nil {
		return nil, err
	}

	for _, o := range p.Owners {
		owner := s.RegisterOwner(o.Name)
		for j, d := range o.Directives {
			prog, err := directive.Parse(d.Program)
			if err != nil {
				return nil, err
			}
			n, err := s.ApplyMatching(d.Stats, owner, prog)
			if err != nil {
				return nil, oops.In("profile").
					With("owner", o.Name).
					With("directive_index", j).
					Wrap(err)
			}
			if n == 0 {
				logger.Warn("directive matched no stats",
					"profile", p.Name,
					"owner", o.Name,
					"stats", d.Stats)
			}
		}
	}
	return s, nil
}
