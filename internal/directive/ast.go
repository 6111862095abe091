// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package directive parses and applies textual modifier directives.
//
// A program is a sequence of directives separated by newlines or semicolons:
//
//	add 10.5 @5 as "haste"
//	min 5 @5
//	div 2 as "curse"
//	custom "if v > 100 then return 100 end return v" @10
//	clear as "curse"
//	clearall
//
// "@n" sets the merge order (default 0) and "as" names the modification
// (default unnamed). Lines starting with # are comments.
package directive

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[@;]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Program is a parsed directive list.
type Program struct {
	Pos        lexer.Position `parser:""`
	Directives []*Directive   `parser:"( @@ ';'* )*"`
}

// Directive is one modification instruction.
type Directive struct {
	Pos      lexer.Position `parser:""`
	ClearAll bool           `parser:"(  @'clearall'"`
	Clear    *Clear         `parser:" | @@"`
	Custom   *Custom        `parser:" | @@"`
	Op       *Op            `parser:" | @@ )"`
}

// Op registers an arithmetic modification.
type Op struct {
	Verb    string  `parser:"@('set' | 'add' | 'sub' | 'mul' | 'div' | 'mod' | 'min' | 'max')"`
	Operand float64 `parser:"@Number"`
	Order   int32   `parser:"( '@' @Number )?"`
	Name    string  `parser:"( 'as' @String )?"`
}

// Custom registers a Lua transform.
type Custom struct {
	Keyword string `parser:"@'custom'"`
	Source  string `parser:"@String"`
	Order   int32  `parser:"( '@' @Number )?"`
	Name    string `parser:"( 'as' @String )?"`
}

// Clear retracts one modification.
type Clear struct {
	Keyword string `parser:"@'clear'"`
	Name    string `parser:"( 'as' @String )?"`
}

// NewParser constructs a participle parser for the directive grammar.
func NewParser() (*participle.Parser[Program], error) {
	return participle.Build[Program](
		participle.Lexer(directiveLexer),
		participle.Unquote("String"),
	)
}

// String renders the directive in canonical form.
func (d *Directive) String() string {
	var b strings.Builder
	switch {
	case d.ClearAll:
		b.WriteString("clearall")
	case d.Clear != nil:
		b.WriteString("clear")
		writeName(&b, d.Clear.Name)
	case d.Custom != nil:
		b.WriteString("custom ")
		b.WriteString(strconv.Quote(d.Custom.Source))
		writeOrder(&b, d.Custom.Order)
		writeName(&b, d.Custom.Name)
	case d.Op != nil:
		b.WriteString(d.Op.Verb)
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(d.Op.Operand, 'g', -1, 64))
		writeOrder(&b, d.Op.Order)
		writeName(&b, d.Op.Name)
	}
	return b.String()
}

func writeOrder(b *strings.Builder, order int32) {
	if order != 0 {
		b.WriteString(" @")
		b.WriteString(strconv.FormatInt(int64(order), 10))
	}
}

func writeName(b *strings.Builder, name string) {
	if name != "" {
		b.WriteString(" as ")
		b.WriteString(strconv.Quote(name))
	}
}

// String renders the program one directive per line.
func (p *Program) String() string {
	lines := make([]string, len(p.Directives))
	for i, d := range p.Directives {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
