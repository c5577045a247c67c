/*
Package dsl provides a fluent Go builder for theories.

It is the programmatic counterpart of YAML theory documents: useful for theories
generated at runtime, for tests, and for term constructors that carry a Go default
implementation, which documents cannot express.

Example usage:

	b := dsl.New("Category")

	b.Type("Ob")
	b.Type("Hom", "dom", "codom").
		Context("dom::Ob", "codom::Ob")

	b.Term("id", "A").
		Context("A::Ob").
		Returns("Hom(A,A)")

	b.Term("compose", "f", "g").
		Context("A::Ob", "B::Ob", "C::Ob", "f::Hom(A,B)", "g::Hom(B,C)").
		Returns("Hom(A,C)")

	th, err := b.Build()
*/
package dsl
