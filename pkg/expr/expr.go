package expr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Kind discriminates generator leaves from compound terms.
type Kind uint8

const (
	// Compound is a term built by a term constructor, e.g. compose(f,g).
	Compound Kind = iota
	// Generator is a leaf wrapping a single raw value, e.g. f::Hom(A,B).
	Generator
)

// GeneratorHead is the head of every generator term.
const GeneratorHead = "generator"

func (k Kind) String() string {
	if k == Generator {
		return "generator"
	}
	return "compound"
}

// Symbol is a symbolic name, the default domain of generator values.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Expr is an immutable typed expression tree.
//
// Sort is the type constructor the term belongs to; Head is the constructor that
// produced it. Args holds primitive values or nested *Expr, TypeArgs the
// expressions describing the term's own type (e.g. dom and codom of a morphism).
type Expr struct {
	kind     Kind
	sort     string
	head     string
	args     []any
	typeArgs []*Expr
	hash     uint64
}

// New creates a compound expression. The slices are copied.
func New(sort, head string, args []any, typeArgs []*Expr) *Expr {
	e := &Expr{
		kind:     Compound,
		sort:     sort,
		head:     head,
		args:     slices.Clone(args),
		typeArgs: slices.Clone(typeArgs),
	}
	e.hash = e.computeHash()
	return e
}

// NewGenerator creates a generator of the given sort wrapping value (which may be nil).
func NewGenerator(sort string, value any, typeArgs []*Expr) *Expr {
	e := &Expr{
		kind:     Generator,
		sort:     sort,
		head:     GeneratorHead,
		args:     []any{value},
		typeArgs: slices.Clone(typeArgs),
	}
	e.hash = e.computeHash()
	return e
}

// Kind returns the discriminant of the expression.
func (e *Expr) Kind() Kind { return e.kind }

// IsGenerator reports whether e is a generator leaf.
func (e *Expr) IsGenerator() bool { return e.kind == Generator }

// Sort returns the name of the type constructor of e.
func (e *Expr) Sort() string { return e.sort }

// Head returns the constructor name ("generator" for generators).
func (e *Expr) Head() string { return e.head }

// Args returns a copy of the argument list.
func (e *Expr) Args() []any { return slices.Clone(e.args) }

// NumArgs returns the number of arguments.
func (e *Expr) NumArgs() int { return len(e.args) }

// Arg returns the i-th argument.
func (e *Expr) Arg(i int) any { return e.args[i] }

// TypeArgs returns a copy of the type-argument list.
func (e *Expr) TypeArgs() []*Expr { return slices.Clone(e.typeArgs) }

// TypeArg returns the i-th type argument.
func (e *Expr) TypeArg(i int) *Expr { return e.typeArgs[i] }

// Value returns the raw value wrapped by a generator. ok is false for compound terms.
func (e *Expr) Value() (v any, ok bool) {
	if e.kind != Generator {
		return nil, false
	}
	return e.args[0], true
}

// CallArgs returns the arguments as they are passed to the expression's
// constructor: [value, typeArgs...] for generators and Args otherwise.
func (e *Expr) CallArgs() []any {
	if e.kind != Generator {
		return e.Args()
	}
	out := make([]any, 0, 1+len(e.typeArgs))
	out = append(out, e.args[0])
	for _, t := range e.typeArgs {
		out = append(out, t)
	}
	return out
}

// Constructor returns the name under which the expression's constructor is
// invoked: the sort for generators and the head otherwise.
func (e *Expr) Constructor() string {
	if e.kind == Generator {
		return e.sort
	}
	return e.head
}

// Equal reports structural equality: same kind, sort, head, arguments and
// type arguments, compared in order.
func (e *Expr) Equal(o *Expr) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.hash != o.hash || e.kind != o.kind || e.sort != o.sort || e.head != o.head {
		return false
	}
	if len(e.args) != len(o.args) || len(e.typeArgs) != len(o.typeArgs) {
		return false
	}
	for i := range e.args {
		if !ValueEqual(e.args[i], o.args[i]) {
			return false
		}
	}
	for i := range e.typeArgs {
		if !e.typeArgs[i].Equal(o.typeArgs[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (e *Expr) Hash() uint64 { return e.hash }

// String renders compound terms as head(arg1,arg2,...) and generators as their
// bare value, or "_" when the value is absent.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.kind == Generator {
		if e.args[0] == nil {
			return "_"
		}
		return formatValue(e.args[0])
	}
	return e.head + "(" + strings.Join(lo.Map(e.args, func(a any, _ int) string {
		return formatValue(a)
	}), ",") + ")"
}

// Signature renders the expression together with its type, e.g. "f : Hom(A,B)".
func (e *Expr) Signature() string {
	typ := e.sort
	if len(e.typeArgs) > 0 {
		typ += "(" + strings.Join(lo.Map(e.typeArgs, func(t *Expr, _ int) string {
			return t.String()
		}), ",") + ")"
	}
	return e.String() + " : " + typ
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "_"
	case *Expr:
		return v.String()
	case Symbol:
		return string(v)
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
