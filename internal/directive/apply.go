// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package directive

import (
	"github.com/samber/oops"

	"github.com/holomush/modfloat/pkg/modfloat"
)

// CompileFunc turns a custom snippet into a transform.
type CompileFunc func(source string) (*modfloat.Transform, error)

// Apply runs every directive of p against f on behalf of owner, in order.
// It stops at the first failing directive; directives before it stay applied.
func Apply[K comparable](p *Program, f *modfloat.Float[K], owner K, compile CompileFunc) error {
	for i, d := range p.Directives {
		if err := applyOne(d, f, owner, compile); err != nil {
			return oops.In("directive").
				With("index", i).
				With("directive", d.String()).
				Wrap(err)
		}
	}
	return nil
}

func applyOne[K comparable](d *Directive, f *modfloat.Float[K], owner K, compile CompileFunc) error {
	switch {
	case d.ClearAll:
		return f.RetractAll(owner)
	case d.Clear != nil:
		return f.For(owner, d.Clear.Name).Clear()
	case d.Custom != nil:
		if compile == nil {
			return oops.Code(modfloat.CodeInvalidArgument).Errorf("custom directives need a script compiler")
		}
		t, err := compile(d.Custom.Source)
		if err != nil {
			return err
		}
		return f.For(owner, d.Custom.Name).Custom(t, d.Custom.Order)
	case d.Op != nil:
		return applyOp(d.Op, f.For(owner, d.Op.Name))
	default:
		return oops.Errorf("empty directive")
	}
}

func applyOp[K comparable](op *Op, h modfloat.Handle[K]) error {
	x, order := op.Operand, op.Order
	switch op.Verb {
	case "set":
		return h.Set(x, order)
	case "add":
		return h.Add(x, order)
	case "sub":
		return h.Sub(x, order)
	case "mul":
		return h.Mul(x, order)
	case "div":
		return h.Div(x, order)
	case "mod":
		return h.Mod(x, order)
	case "min":
		return h.Min(x, order)
	case "max":
		return h.Max(x, order)
	default:
		return oops.With("verb", op.Verb).Errorf("unknown verb %q", op.Verb)
	}
}
