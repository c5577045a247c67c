// Package expr is the expression model shared by every theory: immutable typed
// trees whose nodes are either generator leaves wrapping a raw value or compound
// terms built by a term constructor.
//
// Expressions are compared structurally (Equal) and hashed consistently (Hash), so
// they can key an expr.Map. They are only meant to be created through a syntax
// (package syntax) so that their type arguments are computed from the theory.
package expr
