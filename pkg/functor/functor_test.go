package functor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/functor"
	"github.com/aretw0/gatlab/pkg/syntax"
	"github.com/aretw0/gatlab/pkg/theories"
)

type category struct {
	s       *syntax.Syntax
	A, B, C *expr.Expr
	f, g    *expr.Expr
	fg      *expr.Expr
}

func newCategory(t *testing.T) *category {
	t.Helper()
	s, err := syntax.New(theories.Category())
	require.NoError(t, err)
	c := &category{s: s}
	must := func(e *expr.Expr, err error) *expr.Expr {
		require.NoError(t, err)
		return e
	}
	c.A = must(s.Generator("Ob", expr.Symbol("A")))
	c.B = must(s.Generator("Ob", expr.Symbol("B")))
	c.C = must(s.Generator("Ob", expr.Symbol("C")))
	c.f = must(s.Generator("Hom", expr.Symbol("f"), c.A, c.B))
	c.g = must(s.Generator("Hom", expr.Symbol("g"), c.B, c.C))
	c.fg = must(s.Check("compose", c.f, c.g))
	return c
}

// lengths is the model sending every morphism generator to a path of length 1.
func lengths() *algebra.Table {
	return algebra.NewTable("Lengths").
		Register("Ob", func(args []any) (any, error) { return nil, nil }).
		Register("Hom", func(args []any) (any, error) { return 1, nil }).
		Register("id", func(args []any) (any, error) { return 0, nil }).
		Register("compose", func(args []any) (any, error) { return args[0].(int) + args[1].(int), nil })
}

func TestEvaluate_IdentityLaw(t *testing.T) {
	c := newCategory(t)
	idB, err := c.s.Term("id", c.B)
	require.NoError(t, err)
	nested := mustCompose(t, c.s, c.fg, mustID(t, c.s, c.C))

	for _, e := range []*expr.Expr{c.A, c.f, c.fg, idB, nested} {
		out, err := functor.Evaluate(e, c.s)
		require.NoError(t, err)
		got, ok := out.(*expr.Expr)
		require.True(t, ok)
		assert.True(t, e.Equal(got), "F(%s) = %s", e, got)
	}
}

func TestEvaluate_IdentityLaw_Monoidal(t *testing.T) {
	s, err := syntax.New(theories.MonoidalCategory())
	require.NoError(t, err)
	A, _ := s.Generator("Ob", expr.Symbol("A"))
	B, _ := s.Generator("Ob", expr.Symbol("B"))
	f, _ := s.Generator("Hom", expr.Symbol("f"), A, B)
	I, err := s.Term("munit")
	require.NoError(t, err)
	idI, err := s.Term("id", I)
	require.NoError(t, err)
	e, err := s.Check("otimes_hom", f, idI)
	require.NoError(t, err)

	out, err := functor.Evaluate(e, s)
	require.NoError(t, err)
	assert.True(t, e.Equal(out.(*expr.Expr)))
}

func TestEvaluate_IntoModel(t *testing.T) {
	c := newCategory(t)
	out, err := functor.Evaluate(c.fg, lengths())
	require.NoError(t, err)
	assert.Equal(t, 2, out)
}

func TestEvaluate_GeneratorSubstitution(t *testing.T) {
	c := newCategory(t)
	table := expr.NewMap[any]()
	table.Set(c.f, 10)

	out, err := functor.Evaluate(c.fg, lengths(), functor.WithGenerators(table))
	require.NoError(t, err)
	assert.Equal(t, 11, out)

	// Equal, not identical, generators are substituted too.
	again, err := c.s.Generator("Hom", expr.Symbol("f"), c.A, c.B)
	require.NoError(t, err)
	out, err = functor.Evaluate(again, lengths(), functor.WithGenerators(table))
	require.NoError(t, err)
	assert.Equal(t, 10, out)
}

func TestEvaluate_TermOverride(t *testing.T) {
	c := newCategory(t)

	// A forgetful functor collapsing composites into opaque generators.
	collapse := func(e *expr.Expr) (any, error) {
		return c.s.Generator("Hom", expr.Symbol(e.String()), e.TypeArg(0), e.TypeArg(1))
	}
	out, err := functor.Evaluate(c.fg, c.s, functor.WithTerms(map[string]functor.TermFunc{"compose": collapse}))
	require.NoError(t, err)
	leaf := out.(*expr.Expr)
	assert.True(t, leaf.IsGenerator())
	assert.Equal(t, "compose(f,g) : Hom(A,C)", leaf.Signature())

	// Overrides also apply to generators, keyed by type name.
	out, err = functor.Evaluate(c.fg, lengths(), functor.WithTerms(map[string]functor.TermFunc{
		"Hom": func(e *expr.Expr) (any, error) { return 5, nil },
	}))
	require.NoError(t, err)
	assert.Equal(t, 10, out)
}

func TestEvaluate_WithTypes(t *testing.T) {
	c := newCategory(t)
	target := algebra.NewTable("Arrows").
		Register("Point", func(args []any) (any, error) { return args[0], nil }).
		Register("Arrow", func(args []any) (any, error) {
			return string(args[0].(expr.Symbol)) + ":" + string(args[1].(expr.Symbol)) + "->" + string(args[2].(expr.Symbol)), nil
		})

	out, err := functor.Evaluate(c.f, target, functor.WithTypes(map[string]string{"Ob": "Point", "Hom": "Arrow"}))
	require.NoError(t, err)
	assert.Equal(t, "f:A->B", out)
}

func TestEvaluate_LeftToRightOrder(t *testing.T) {
	c := newCategory(t)
	var visited []string
	_, err := functor.Evaluate(c.fg, c.s, functor.WithHooks(functor.Hooks{
		OnEvaluate: func(e *expr.Expr, _ any) { visited = append(visited, e.String()) },
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "f", "B", "C", "g", "compose(f,g)"}, visited)
}

func TestEvaluate_UnknownConstructor(t *testing.T) {
	c := newCategory(t)
	partial := algebra.NewTable("Partial").
		Register("Ob", func(args []any) (any, error) { return nil, nil }).
		Register("Hom", func(args []any) (any, error) { return 1, nil })

	var failed []*expr.Expr
	_, err := functor.Evaluate(c.fg, partial, functor.WithHooks(functor.Hooks{
		OnError: func(e *expr.Expr, _ error) { failed = append(failed, e) },
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, algebra.ErrUnknownConstructor)
	require.Len(t, failed, 1)
	assert.Same(t, c.fg, failed[0])

	_, err = functor.Evaluate(nil, partial)
	assert.Error(t, err)
}

func TestCompose(t *testing.T) {
	c := newCategory(t)

	// F renames morphism generators; G measures names.
	rename := functor.New(c.s, functor.WithTerms(map[string]functor.TermFunc{
		"Hom": func(e *expr.Expr) (any, error) {
			v, _ := e.Value()
			return c.s.Generator("Hom", expr.Symbol(string(v.(expr.Symbol))+"_long"), e.TypeArg(0), e.TypeArg(1))
		},
	}))
	measure := functor.New(lengths(), functor.WithTerms(map[string]functor.TermFunc{
		"Hom": func(e *expr.Expr) (any, error) {
			v, _ := e.Value()
			return len(string(v.(expr.Symbol))), nil
		},
	}))

	chain := functor.Compose(rename, measure)
	composed, err := chain.Apply(c.fg)
	require.NoError(t, err)
	assert.Equal(t, 12, composed)

	table, err := chain.Generators(c.fg)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	direct, err := functor.Evaluate(c.fg, measure.Target(), functor.WithGenerators(table))
	require.NoError(t, err)
	assert.Equal(t, composed, direct)

	out, err := functor.Compose().Apply(c.f)
	require.NoError(t, err)
	assert.Same(t, c.f, out)

	_, err = functor.Compose(measure, rename).Apply(c.fg)
	assert.ErrorContains(t, err, "is not an expression")
}

func mustID(t *testing.T, s *syntax.Syntax, ob *expr.Expr) *expr.Expr {
	t.Helper()
	e, err := s.Term("id", ob)
	require.NoError(t, err)
	return e
}

func mustCompose(t *testing.T, s *syntax.Syntax, f, g *expr.Expr) *expr.Expr {
	t.Helper()
	e, err := s.Check("compose", f, g)
	require.NoError(t, err)
	return e
}
