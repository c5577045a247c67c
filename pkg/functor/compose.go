package functor

import (
	"fmt"

	"github.com/aretw0/gatlab/pkg/expr"
)

// Composite applies functors in sequence: the output of each one is the input of
// the next, so every functor except the last must map into an algebra of
// expressions (such as a syntax).
type Composite []*Functor

// Compose chains functors, first applied first.
func Compose(fs ...*Functor) Composite {
	return Composite(fs)
}

// Apply evaluates e through every functor of the chain.
func (c Composite) Apply(e *expr.Expr) (any, error) {
	if len(c) == 0 {
		return e, nil
	}
	var cur any = e
	for i, f := range c {
		in, ok := cur.(*expr.Expr)
		if !ok {
			return nil, fmt.Errorf("functor %d of %d: input %T is not an expression", i+1, len(c), cur)
		}
		out, err := f.Apply(in)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

// Generators computes the composed action on the generators of e: each generator
// leaf is mapped through the whole chain. Evaluating e into the last target with
// this table agrees with Apply whenever every functor acts on compound terms by
// their constructor name.
func (c Composite) Generators(e *expr.Expr) (*expr.Map[any], error) {
	table := expr.NewMap[any]()
	for _, g := range expr.Generators(e) {
		v, err := c.Apply(g)
		if err != nil {
			return nil, err
		}
		table.Set(g, v)
	}
	return table, nil
}
