package dsl

import "github.com/aretw0/gatlab/pkg/theory"

// TypeBuilder provides a fluent API for configuring a type constructor.
type TypeBuilder struct {
	tc      theory.TypeConstructor
	builder *Builder
	errs    []error
}

// Context declares the types of the parameters, as "name::Type" bindings.
func (t *TypeBuilder) Context(bindings ...string) *TypeBuilder {
	for _, src := range bindings {
		bd, err := t.builder.parser.ParseBinding(src)
		if err != nil {
			t.errs = append(t.errs, &theory.ValidationError{Constructor: t.tc.Name, Reason: err.Error()})
			continue
		}
		t.tc.Context = append(t.tc.Context, bd)
	}
	return t
}

// Doc sets the documentation of the type constructor.
func (t *TypeBuilder) Doc(doc string) *TypeBuilder {
	t.tc.Doc = doc
	return t
}

// TermBuilder provides a fluent API for configuring a term constructor.
type TermBuilder struct {
	tc      theory.TermConstructor
	builder *Builder
	errs    []error
}

// Context declares the typed variables of the constructor, parameters included.
func (t *TermBuilder) Context(bindings ...string) *TermBuilder {
	for _, src := range bindings {
		bd, err := t.builder.parser.ParseBinding(src)
		if err != nil {
			t.fail(err)
			continue
		}
		t.tc.Context = append(t.tc.Context, bd)
	}
	return t
}

// Returns sets the result type.
func (t *TermBuilder) Returns(typ string) *TermBuilder {
	term, err := t.builder.parser.ParseTerm(typ)
	if err != nil {
		t.fail(err)
		return t
	}
	t.tc.Type = term
	return t
}

// Equation adds an equation "lhs == rhs" that strict construction must satisfy.
func (t *TermBuilder) Equation(src string) *TermBuilder {
	eq, err := t.builder.parser.ParseEquation(src)
	if err != nil {
		t.fail(err)
		return t
	}
	t.tc.Equations = append(t.tc.Equations, eq)
	return t
}

// Default attaches a theory-level implementation used by algebras that do not
// register the constructor themselves.
func (t *TermBuilder) Default(fn theory.DefaultFunc) *TermBuilder {
	t.tc.Default = fn
	return t
}

// Doc sets the documentation of the term constructor.
func (t *TermBuilder) Doc(doc string) *TermBuilder {
	t.tc.Doc = doc
	return t
}

func (t *TermBuilder) fail(err error) {
	t.errs = append(t.errs, &theory.ValidationError{Constructor: t.tc.Name, Reason: err.Error()})
}
