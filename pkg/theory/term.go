package theory

import "strings"

// Term is a symbolic expression in the language of a theory.
// It is used for declared types, context bindings and equations.
//
// A term without arguments is a symbol: it names a context variable when one is
// bound, and a nullary term constructor otherwise.
type Term struct {
	Head string
	Args []Term
}

// Sym creates a bare symbol.
func Sym(name string) Term {
	return Term{Head: name}
}

// Apply creates the application of head to args.
func Apply(head string, args ...Term) Term {
	return Term{Head: head, Args: args}
}

// IsSymbol reports whether the term has no arguments.
func (t Term) IsSymbol() bool {
	return len(t.Args) == 0
}

// Equal reports structural equality.
func (t Term) Equal(o Term) bool {
	if t.Head != o.Head || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Symbols returns every symbol that occurs in the term, in order of first appearance.
func (t Term) Symbols() []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(Term)
	walk = func(t Term) {
		if t.IsSymbol() {
			if !seen[t.Head] {
				seen[t.Head] = true
				out = append(out, t.Head)
			}
			return
		}
		for _, a := range t.Args {
			walk(a)
		}
	}
	walk(t)
	return out
}

// Heads returns the heads of every application in the term (excluding bare symbols).
func (t Term) Heads() []string {
	var out []string
	var walk func(Term)
	walk = func(t Term) {
		if t.IsSymbol() {
			return
		}
		out = append(out, t.Head)
		for _, a := range t.Args {
			walk(a)
		}
	}
	walk(t)
	return out
}

func (t Term) String() string {
	if t.IsSymbol() {
		return t.Head
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Head + "(" + strings.Join(parts, ",") + ")"
}

// Binding assigns a declared type to a named variable.
type Binding struct {
	Name string
	Type Term
}

func (b Binding) String() string {
	return b.Name + "::" + b.Type.String()
}

// Context is an ordered list of typed variables.
type Context []Binding

// Lookup returns the declared type of name.
func (c Context) Lookup(name string) (Term, bool) {
	for _, b := range c {
		if b.Name == name {
			return b.Type, true
		}
	}
	return Term{}, false
}

// Has reports whether name is bound in the context.
func (c Context) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns the bound variable names in declaration order.
func (c Context) Names() []string {
	names := make([]string, len(c))
	for i, b := range c {
		names[i] = b.Name
	}
	return names
}

// Equation states that two terms must be equal for a term to be well-formed.
type Equation struct {
	Lhs Term
	Rhs Term
}

func (e Equation) String() string {
	return e.Lhs.String() + " == " + e.Rhs.String()
}
