package sexpr_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/sexpr"
	"github.com/aretw0/gatlab/pkg/syntax"
	"github.com/aretw0/gatlab/pkg/theories"
)

type terms struct {
	s        *syntax.Syntax
	A, B, C  *expr.Expr
	f, g, fg *expr.Expr
}

func newTerms(t *testing.T) *terms {
	t.Helper()
	s, err := syntax.New(theories.Category())
	require.NoError(t, err)
	must := func(e *expr.Expr, err error) *expr.Expr {
		require.NoError(t, err)
		return e
	}
	x := &terms{s: s}
	x.A = must(s.Generator("Ob", expr.Symbol("A")))
	x.B = must(s.Generator("Ob", expr.Symbol("B")))
	x.C = must(s.Generator("Ob", expr.Symbol("C")))
	x.f = must(s.Generator("Hom", expr.Symbol("f"), x.A, x.B))
	x.g = must(s.Generator("Hom", expr.Symbol("g"), x.B, x.C))
	x.fg = must(s.Check("compose", x.f, x.g))
	return x
}

var composeWire = []any{"compose",
	[]any{"Hom", "f", []any{"Ob", "A"}, []any{"Ob", "B"}},
	[]any{"Hom", "g", []any{"Ob", "B"}, []any{"Ob", "C"}},
}

func TestEncode(t *testing.T) {
	x := newTerms(t)

	out, err := sexpr.Encode(x.fg)
	require.NoError(t, err)
	assert.Equal(t, composeWire, out)

	out, err = sexpr.Encode(x.A)
	require.NoError(t, err)
	assert.Equal(t, []any{"Ob", "A"}, out)

	weird, err := x.s.Generator("Ob", struct{ N int }{1})
	require.NoError(t, err)
	_, err = sexpr.Encode(weird)
	assert.ErrorContains(t, err, "has no S-expression form")

	out, err = sexpr.Encode(weird, sexpr.WithValueEncoder(func(v any) (any, error) {
		return fmt.Sprintf("%v", v), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, []any{"Ob", "{1}"}, out)
}

func TestRoundTrip(t *testing.T) {
	x := newTerms(t)
	idC, err := x.s.Term("id", x.C)
	require.NoError(t, err)
	fgid, err := x.s.Check("compose", x.fg, idC)
	require.NoError(t, err)
	numbered, err := x.s.Generator("Hom", 42, x.A, x.A)
	require.NoError(t, err)
	anonymous, err := x.s.Generator("Ob", nil)
	require.NoError(t, err)

	for _, e := range []*expr.Expr{x.A, x.f, x.fg, idC, fgid, numbered, anonymous} {
		wire, err := sexpr.Encode(e)
		require.NoError(t, err)
		back, err := sexpr.Decode(x.s.Theory(), x.s, wire)
		require.NoError(t, err, "decode %v", wire)
		assert.True(t, e.Equal(back.(*expr.Expr)), "%s != %s", e, back)
	}
}

func TestRoundTrip_Monoidal(t *testing.T) {
	s, err := syntax.New(theories.SymmetricMonoidalCategory())
	require.NoError(t, err)
	A, _ := s.Generator("Ob", expr.Symbol("A"))
	B, _ := s.Generator("Ob", expr.Symbol("B"))
	f, _ := s.Generator("Hom", expr.Symbol("f"), A, B)
	I, err := s.Term("munit")
	require.NoError(t, err)
	idI, err := s.Term("id", I)
	require.NoError(t, err)
	fI, err := s.Check("otimes_hom", f, idI)
	require.NoError(t, err)
	braid, err := s.Term("braid", A, I)
	require.NoError(t, err)

	for _, e := range []*expr.Expr{I, fI, braid} {
		wire, err := sexpr.Encode(e)
		require.NoError(t, err)
		back, err := sexpr.Decode(s.Theory(), s, wire)
		require.NoError(t, err)
		assert.True(t, e.Equal(back.(*expr.Expr)), "%s", e)
	}

	wire, err := sexpr.Encode(I)
	require.NoError(t, err)
	assert.Equal(t, []any{"munit"}, wire)
}

func TestByReference(t *testing.T) {
	x := newTerms(t)
	isSymbol := func(v any) bool {
		_, ok := v.(expr.Symbol)
		return ok
	}

	wire, err := sexpr.Encode(x.fg, sexpr.WithByReference(isSymbol))
	require.NoError(t, err)
	assert.Equal(t, []any{"compose", "f", "g"}, wire)

	_, err = sexpr.Decode(x.s.Theory(), x.s, wire)
	assert.ErrorIs(t, err, sexpr.ErrReferenceDisabled)

	known := map[string]*expr.Expr{"f": x.f, "g": x.g}
	resolve := func(name string) (any, error) {
		e, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("no term named %s", name)
		}
		return e, nil
	}
	back, err := sexpr.Decode(x.s.Theory(), x.s, wire, sexpr.WithReferenceResolver(resolve))
	require.NoError(t, err)
	assert.True(t, x.fg.Equal(back.(*expr.Expr)))

	_, err = sexpr.Decode(x.s.Theory(), x.s, []any{"compose", "f", "h"}, sexpr.WithReferenceResolver(resolve))
	assert.ErrorContains(t, err, "no term named h")
}

func TestDecode_StrictTarget(t *testing.T) {
	x := newTerms(t)
	wire := []any{"compose",
		[]any{"Hom", "f", []any{"Ob", "A"}, []any{"Ob", "B"}},
		[]any{"Hom", "h", []any{"Ob", "C"}, []any{"Ob", "A"}},
	}

	_, err := sexpr.Decode(x.s.Theory(), syntax.Strict(x.s), wire)
	var domErr *syntax.DomainError
	assert.ErrorAs(t, err, &domErr)

	_, err = sexpr.Decode(x.s.Theory(), x.s, wire)
	assert.NoError(t, err)
}

func TestDecode_Options(t *testing.T) {
	x := newTerms(t)

	out, err := sexpr.Decode(x.s.Theory(), x.s, []any{"Ob", "A"}, sexpr.WithSymbols(false))
	require.NoError(t, err)
	v, _ := out.(*expr.Expr).Value()
	assert.Equal(t, "A", v)

	heads := map[string]string{"∘": "compose"}
	wire := []any{"∘", composeWire[1], composeWire[2]}
	out, err = sexpr.Decode(x.s.Theory(), x.s, wire, sexpr.WithHeadParser(func(h string) string {
		if name, ok := heads[h]; ok {
			return name
		}
		return h
	}))
	require.NoError(t, err)
	assert.True(t, x.fg.Equal(out.(*expr.Expr)))

	out, err = sexpr.Decode(x.s.Theory(), x.s, []any{"Ob", "a"}, sexpr.WithValueDecoder(func(v any) (any, error) {
		return expr.Symbol(strings.ToUpper(string(v.(expr.Symbol)))), nil
	}))
	require.NoError(t, err)
	assert.True(t, x.A.Equal(out.(*expr.Expr)))
}

func TestDecode_Errors(t *testing.T) {
	x := newTerms(t)
	th := x.s.Theory()

	_, err := sexpr.Decode(th, x.s, []any{"frobnicate", composeWire[1]})
	assert.ErrorIs(t, err, algebra.ErrUnknownConstructor)

	_, err = sexpr.Decode(th, x.s, []any{})
	assert.ErrorContains(t, err, "empty sequence")
	assert.ErrorIs(t, err, sexpr.ErrMalformed)

	_, err = sexpr.Decode(th, x.s, []any{1, 2})
	assert.ErrorContains(t, err, "head must be a string")
	assert.ErrorIs(t, err, sexpr.ErrMalformed)

	_, err = sexpr.Decode(th, x.s, map[string]any{})
	assert.ErrorIs(t, err, sexpr.ErrMalformed)

	_, err = sexpr.Decode(th, x.s, []any{"compose", []any{}, composeWire[2]})
	assert.ErrorIs(t, err, sexpr.ErrMalformed)
}

func TestDecode_PrimitivesPassThrough(t *testing.T) {
	ints := algebra.NewTable("ints").Register("add", func(args []any) (any, error) {
		return args[0].(int) + args[1].(int), nil
	})
	x := newTerms(t)

	out, err := sexpr.Decode(x.s.Theory(), ints, []any{"add", 1, []any{"add", 2, 3}})
	require.NoError(t, err)
	assert.Equal(t, 6, out)
}

func TestText(t *testing.T) {
	src := `
; f then g
(compose (Hom f (Ob A) (Ob B))
         (Hom g (Ob B) (Ob C)))`
	v, err := sexpr.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, composeWire, v)
	assert.Equal(t, "(compose (Hom f (Ob A) (Ob B)) (Hom g (Ob B) (Ob C)))", sexpr.Format(v))

	mixed := []any{"x y", "1", 1, 2.5, true, nil, "", expr.Symbol("s"), "nil"}
	text := sexpr.Format(mixed)
	assert.Equal(t, `("x y" "1" 1 2.5 true nil "" s "nil")`, text)
	back, err := sexpr.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []any{"x y", "1", 1, 2.5, true, nil, "", "s", "nil"}, back)
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{"", "(a b", ")", `(a "b)`, "(a) b"} {
		_, err := sexpr.Parse(src)
		var synErr *sexpr.SyntaxError
		assert.ErrorAs(t, err, &synErr, src)
	}
}

func TestJSON(t *testing.T) {
	data := []byte(`["compose",["Hom","f",["Ob","A"],["Ob","B"]],["Hom","g",["Ob","B"],["Ob","C"]]]`)
	v, err := sexpr.FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, composeWire, v)

	out, err := sexpr.ToJSON(v)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(out))

	v, err = sexpr.FromJSON([]byte(`[1, 2.5, true, null, "s\"q", []]`))
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2.5, true, nil, `s"q`, []any{}}, v)

	_, err = sexpr.FromJSON([]byte(`{"head": "compose"}`))
	assert.Error(t, err)
	_, err = sexpr.FromJSON([]byte(`[1,`))
	assert.Error(t, err)

	v, err = sexpr.FromJSON([]byte("  [\"Ob\", \"A\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []any{"Ob", "A"}, v)

	for _, trailing := range []string{
		`["Ob","A"] ["Hom"]`,
		`["Ob","A"]]]`,
		`["Ob","A"] garbage`,
		`5 6`,
	} {
		_, err = sexpr.FromJSON([]byte(trailing))
		assert.ErrorContains(t, err, "unexpected data after value", trailing)
	}
}
