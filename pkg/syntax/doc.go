// Package syntax turns a theory into an algebra of typed expressions.
//
// New interprets the theory's descriptors: every term constructor, every type
// constructor (as a generator constructor wrapping a raw value) and every
// type-constructor parameter (as an accessor) becomes callable by name.
//
//	s, _ := syntax.New(theories.Category())
//	A, _ := s.Generator("Ob", expr.Symbol("A"))
//	B, _ := s.Generator("Ob", expr.Symbol("B"))
//	f, _ := s.Generator("Hom", expr.Symbol("f"), A, B)
//	id, _ := s.Term("id", B)
//	fid, err := s.Check("compose", f, id) // strict: validates codom(f) == dom(id)
//
// Construction computes the type arguments of each term from the declared result
// type of its constructor. Equations are only checked in strict mode (Check,
// Strict), so trusted code can skip re-validation.
package syntax
