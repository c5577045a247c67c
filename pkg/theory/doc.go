// Package theory describes generalized algebraic theories (GATs): ordered lists of
// type constructors and term constructors with typed parameters and equations.
//
// A theory is built once, validated by New, and never modified afterwards:
//
//	th, err := theory.New(theory.Signature{
//	    Name: "Category",
//	    Types: []theory.TypeConstructor{
//	        {Name: "Ob"},
//	        {Name: "Hom", Params: []string{"dom", "codom"}, Context: ...},
//	    },
//	    Terms: ...,
//	})
//
// Theories can also be read from YAML documents (Load, Parse) whose terms use the
// textual notation understood by Parser, or assembled with the dsl package.
//
// New derives, for every constructor, how each context variable is computed from
// the parameters (A := dom(f)) and which equations the context implies
// (codom(f) == dom(g) for compose(f::Hom(A,B), g::Hom(B,C))).
package theory
