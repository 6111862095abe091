// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package directive

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

// CodeParse is the oops error code for malformed directive text.
const CodeParse = "DIRECTIVE_PARSE"

// MaxDirectives bounds the size of one program.
const MaxDirectives = 256

var parser *participle.Parser[Program]

func init() {
	var err error
	parser, err = NewParser()
	if err != nil {
		panic(fmt.Sprintf("failed to build directive parser: %v", err))
	}
}

// Parse parses directive text. The error carries the line and column of the
// first problem.
func Parse(text string) (*Program, error) {
	prog, err := parser.ParseString("", text)
	if err != nil {
		builder := oops.In("directive").Code(CodeParse)
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			builder = builder.With("line", pos.Line).With("column", pos.Column)
		}
		return nil, builder.Wrapf(err, "parsing directives")
	}
	if len(prog.Directives) > MaxDirectives {
		return nil, oops.In("directive").
			Code(CodeParse).
			With("count", len(prog.Directives)).
			Errorf("program has %d directives, maximum is %d", len(prog.Directives), MaxDirectives)
	}
	return prog, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(text string) *Program {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}
