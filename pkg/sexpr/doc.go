// Package sexpr converts expressions to and from S-expressions.
//
// The wire form is a nested []any over string, bool, numbers and nil. A compound
// term encodes as [head, args...]; a generator as [TypeName, value, typeArgs...],
// unless its value is flagged as a reference, in which case the value alone is
// emitted and the decoder hands it to a reference resolver.
//
//	["compose", ["Hom", "f", ["Ob", "A"], ["Ob", "B"]], ["Hom", "g", ["Ob", "B"], ["Ob", "C"]]]
//
// Decoding is theory-agnostic: heads are passed through the reflective invoker of
// the target algebra. Whether the first argument of a sequence is a raw value or a
// nested expression is decided by a heuristic: it is a value when the head is a
// type constructor whose arity equals the number of remaining arguments. A term
// constructor sharing that arithmetic with a generator would be misread; theories
// in this module never name a term after a type.
//
// The same data has a text form, written Lisp-style:
//
//	(compose (Hom f (Ob A) (Ob B)) (Hom g (Ob B) (Ob C)))
package sexpr
