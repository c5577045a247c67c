package theory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gatlab/pkg/theory"
)

func objects() []theory.TypeConstructor {
	return []theory.TypeConstructor{
		{Name: "Ob"},
		{Name: "Hom", Params: []string{"dom", "codom"}, Context: theory.Context{
			{Name: "dom", Type: theory.Sym("Ob")},
			{Name: "codom", Type: theory.Sym("Ob")},
		}},
	}
}

func composeTerm() theory.TermConstructor {
	return theory.TermConstructor{
		Name:   "compose",
		Params: []string{"f", "g"},
		Context: theory.Context{
			{Name: "A", Type: theory.Sym("Ob")},
			{Name: "B", Type: theory.Sym("Ob")},
			{Name: "C", Type: theory.Sym("Ob")},
			{Name: "f", Type: theory.MustTerm("Hom(A,B)")},
			{Name: "g", Type: theory.MustTerm("Hom(B,C)")},
		},
		Type: theory.MustTerm("Hom(A,C)"),
	}
}

func TestNew_DerivesResolutionsAndEquations(t *testing.T) {
	th, err := theory.New(theory.Signature{Name: "Category", Types: objects(), Terms: []theory.TermConstructor{composeTerm()}})
	require.NoError(t, err)

	tc, ok := th.Term("compose")
	require.True(t, ok)
	assert.Equal(t, 2, tc.Arity())

	for name, want := range map[string]string{"A": "dom(f)", "B": "codom(f)", "C": "codom(g)"} {
		r, ok := tc.Resolution(name)
		require.True(t, ok, name)
		assert.Equal(t, want, r.String(), name)
	}
	_, ok = tc.Resolution("f")
	assert.False(t, ok, "parameters are not resolutions")

	require.Len(t, tc.Equations, 1)
	assert.Equal(t, "codom(f) == dom(g)", tc.Equations[0].String())
	assert.Empty(t, tc.DeclaredEquations())

	sort, ok := th.SortOf("compose")
	assert.True(t, ok)
	assert.Equal(t, "Hom", sort)

	arity, ok := th.TypeArity("Hom")
	assert.True(t, ok)
	assert.Equal(t, 2, arity)
	assert.Equal(t, []theory.Accessor{{Type: "Hom", Param: "codom", Index: 1}}, th.Accessors("codom"))
}

func TestNew_DoesNotAliasSignature(t *testing.T) {
	terms := []theory.TermConstructor{composeTerm()}
	th, err := theory.New(theory.Signature{Name: "Category", Types: objects(), Terms: terms})
	require.NoError(t, err)

	terms[0].Params[0] = "x"
	tc, _ := th.Term("compose")
	assert.Equal(t, []string{"f", "g"}, tc.Params)
}

func TestNew_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		sig    theory.Signature
		reason string
	}{
		{
			name:   "missing theory name",
			sig:    theory.Signature{Types: objects()},
			reason: "theory name is required",
		},
		{
			name:   "duplicate type",
			sig:    theory.Signature{Name: "T", Types: append(objects(), theory.TypeConstructor{Name: "Ob"})},
			reason: "duplicate type constructor",
		},
		{
			name: "unknown type in context",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "x", Params: []string{"a"},
				Context: theory.Context{{Name: "a", Type: theory.Sym("Set")}},
				Type:    theory.Sym("Ob"),
			}}},
			reason: "unknown type constructor Set",
		},
		{
			name: "parameter without type",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "x", Params: []string{"a"}, Type: theory.Sym("Ob"),
			}}},
			reason: "parameter a has no declared type",
		},
		{
			name: "wrong type arity",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "x", Type: theory.MustTerm("Hom(A)"),
				Context: theory.Context{{Name: "A", Type: theory.Sym("Ob")}},
			}}},
			reason: "type Hom expects 2 arguments, got 1",
		},
		{
			name: "unresolvable variable",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "x", Type: theory.MustTerm("Hom(A,A)"),
				Context: theory.Context{{Name: "A", Type: theory.Sym("Ob")}},
			}}},
			reason: "variable A in result type cannot be resolved",
		},
		{
			name: "term shadows accessor",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "dom", Type: theory.Sym("Ob"),
			}}},
			reason: "name is used by both an accessor and a term constructor",
		},
		{
			name: "unbound symbol in equation",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "x", Params: []string{"a"},
				Context:   theory.Context{{Name: "a", Type: theory.Sym("Ob")}},
				Type:      theory.Sym("Ob"),
				Equations: []theory.Equation{{Lhs: theory.Sym("a"), Rhs: theory.Sym("b")}},
			}}},
			reason: "unbound symbol b",
		},
		{
			name: "recursive result type",
			sig: theory.Signature{Name: "T", Types: objects(), Terms: []theory.TermConstructor{{
				Name: "I", Type: theory.MustTerm("Hom(I(),I())"),
			}}},
			reason: "result type expands recursively",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := theory.New(tt.sig)
			require.Error(t, err)
			assert.Nil(t, th)
			var agg *theory.AggregateError
			require.ErrorAs(t, err, &agg)
			assert.NotEmpty(t, theory.ValidationErrors(err))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestNew_TypeImpliedEquations(t *testing.T) {
	// A 2-cell between parallel morphisms: dom(α) and codom(α) must share endpoints.
	types := append(objects(), theory.TypeConstructor{
		Name:   "Hom2",
		Params: []string{"src", "tgt"},
		Context: theory.Context{
			{Name: "A", Type: theory.Sym("Ob")},
			{Name: "B", Type: theory.Sym("Ob")},
			{Name: "src", Type: theory.MustTerm("Hom(A,B)")},
			{Name: "tgt", Type: theory.MustTerm("Hom(A,B)")},
		},
	})
	th, err := theory.New(theory.Signature{Name: "TwoCat", Types: types})
	require.NoError(t, err)

	tc, ok := th.Type("Hom2")
	require.True(t, ok)
	eqs := make([]string, len(tc.Equations))
	for i, eq := range tc.Equations {
		eqs[i] = eq.String()
	}
	assert.Equal(t, []string{"dom(src) == dom(tgt)", "codom(src) == codom(tgt)"}, eqs)
}
