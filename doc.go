/*
Package gatlab builds typed symbolic expressions from generalized algebraic
theories (GATs) and evaluates them in other algebras.

A theory declares type constructors (Ob, Hom(dom, codom)) and term constructors
(id, compose) together with the equations their arguments must satisfy. From a
theory, gatlab derives the free algebra of expressions (pkg/syntax), checks
those equations on demand, maps expressions into other algebras through functors
(pkg/functor), and moves them over the wire as nested sequences (pkg/sexpr).

# Usage

The Engine bundles a theory, its syntax and a term store:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/gatlab"
	)

	func main() {
		// Built-in name, a YAML theory file or a Markdown theory document.
		eng, err := gatlab.New("category")
		if err != nil {
			log.Fatal(err)
		}
		ctx := context.Background()

		f := []any{"Hom", "f", []any{"Ob", "A"}, []any{"Ob", "B"}}
		g := []any{"Hom", "g", []any{"Ob", "B"}, []any{"Ob", "C"}}

		// Strict decoding validates codom(f) == dom(g).
		fg, err := eng.Check(ctx, []any{"compose", f, g})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(fg.Signature()) // compose(f,g) : Hom(A,C)

		// Stored terms can be referenced by name.
		_ = eng.SaveTerm(ctx, "fg", fg)
	}

# Packages

  - pkg/theory: theory model, term parser and YAML documents.
  - pkg/dsl: fluent builder for theories in Go code.
  - pkg/theories: built-in theories (categories, monoidal categories).
  - pkg/expr: immutable expressions with structural equality.
  - pkg/syntax: the free algebra of a theory, strict and non-strict.
  - pkg/algebra: reflective invocation by constructor name.
  - pkg/functor: evaluation of expressions in a target algebra.
  - pkg/sexpr: S-expression wire format, JSON and text forms.
  - pkg/ports, pkg/adapters: term stores, theory loaders, HTTP and MCP servers.
*/
package gatlab
