package dsl

import (
	"github.com/aretw0/gatlab/pkg/theory"
)

// Builder manages the construction of a theory.
// Constructors keep the order in which they were first added.
type Builder struct {
	name   string
	doc    string
	parser *theory.Parser
	types  []*TypeBuilder
	terms  []*TermBuilder
	byName map[string]any
}

// New creates a builder for a theory called name.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		parser: theory.NewParser(),
		byName: make(map[string]any),
	}
}

// Doc sets the theory documentation.
func (b *Builder) Doc(doc string) *Builder {
	b.doc = doc
	return b
}

// Type adds a type constructor with the given parameters.
// If the type already exists, it returns the existing builder.
func (b *Builder) Type(name string, params ...string) *TypeBuilder {
	if tb, ok := b.byName[name].(*TypeBuilder); ok {
		return tb
	}
	tb := &TypeBuilder{
		tc:      theory.TypeConstructor{Name: name, Params: params},
		builder: b,
	}
	b.byName[name] = tb
	b.types = append(b.types, tb)
	return tb
}

// Term adds a term constructor with the given parameters.
// If the term already exists, it returns the existing builder.
func (b *Builder) Term(name string, params ...string) *TermBuilder {
	if tb, ok := b.byName[name].(*TermBuilder); ok {
		return tb
	}
	tb := &TermBuilder{
		tc:      theory.TermConstructor{Name: name, Params: params},
		builder: b,
	}
	b.byName[name] = tb
	b.terms = append(b.terms, tb)
	return tb
}

// Build parses every textual term and validates the theory.
// Parse failures and validation failures are reported together.
func (b *Builder) Build() (*theory.Theory, error) {
	sig := theory.Signature{Name: b.name, Doc: b.doc}
	var errs []error
	for _, tb := range b.types {
		errs = append(errs, tb.errs...)
		sig.Types = append(sig.Types, tb.tc)
	}
	for _, tb := range b.terms {
		errs = append(errs, tb.errs...)
		sig.Terms = append(sig.Terms, tb.tc)
	}
	if len(errs) > 0 {
		return nil, &theory.AggregateError{Theory: b.name, Errors: errs}
	}
	return theory.New(sig)
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *theory.Theory {
	th, err := b.Build()
	if err != nil {
		panic(err)
	}
	return th
}
