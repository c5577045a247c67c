package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gatlab/pkg/theory"
)

func TestBuilder_Category(t *testing.T) {
	b := New("Category").Doc("Categories.")

	b.Type("Ob").Doc("Objects.")
	b.Type("Hom", "dom", "codom").
		Context("dom::Ob", "codom::Ob")

	b.Term("id", "A").
		Context("A::Ob").
		Returns("Hom(A,A)")

	b.Term("compose", "f", "g").
		Context("A::Ob", "B::Ob", "C::Ob", "f::Hom(A,B)", "g::Hom(B,C)").
		Returns("Hom(A,C)").
		Doc("Composition.")

	th, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "Category", th.Name())
	assert.Equal(t, "Categories.", th.Doc())
	names := []string{}
	for _, tc := range th.Terms() {
		names = append(names, tc.Name)
	}
	assert.Equal(t, []string{"id", "compose"}, names, "declaration order is kept")

	compose, ok := th.Term("compose")
	require.True(t, ok)
	assert.Equal(t, "Composition.", compose.Doc)
	assert.Equal(t, "codom(f) == dom(g)", compose.Equations[0].String())
}

func TestBuilder_SameNameReturnsExistingBuilder(t *testing.T) {
	b := New("T")
	first := b.Type("Ob")
	assert.Same(t, first, b.Type("Ob"))

	term := b.Term("unit").Returns("Ob")
	assert.Same(t, term, b.Term("unit"))
}

func TestBuilder_EquationsAndDefaults(t *testing.T) {
	var called bool
	b := New("Pointed")
	b.Type("Set")
	b.Type("El", "set").Context("set::Set")
	b.Term("same", "x", "y").
		Context("X::Set", "x::El(X)", "y::El(X)").
		Returns("El(X)").
		Equation("x == y").
		Default(func(inv theory.Invoker, args []any) (any, error) {
			called = true
			return args[0], nil
		})

	th := b.MustBuild()
	same, _ := th.Term("same")
	require.NotNil(t, same.Default)
	require.Len(t, same.DeclaredEquations(), 1)

	out, err := same.Default(nil, []any{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 1, out)
	assert.True(t, called)
}

func TestBuilder_ReportsParseAndValidationErrors(t *testing.T) {
	b := New("Broken")
	b.Type("Ob")
	b.Term("bad", "x").
		Context("x Ob").
		Returns("Ob(").
		Equation("x")

	_, err := b.Build()
	require.Error(t, err)
	errs := theory.ValidationErrors(err)
	assert.Len(t, errs, 3)

	b = New("Invalid")
	b.Term("orphan").Returns("Missing")
	_, err = b.Build()
	assert.ErrorContains(t, err, "unknown type constructor Missing")
	assert.Panics(t, func() { b.MustBuild() })
}
