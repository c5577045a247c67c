package theory

import (
	"fmt"
	"slices"
)

// Invoker is the reflective call surface of an algebra: it applies the constructor
// registered under name to args.
type Invoker interface {
	Invoke(name string, args []any) (any, error)
}

// DefaultFunc is a theory-supplied implementation of a term constructor.
// It does not depend on any particular algebra: it receives the algebra it is
// evaluated in and builds its result through it.
type DefaultFunc func(inv Invoker, args []any) (any, error)

// TypeConstructor declares a sort of the theory, such as Ob or Hom(dom, codom).
type TypeConstructor struct {
	Name    string
	Params  []string
	Context Context
	Doc     string

	// Equations is populated by New with the equations implied by Context.
	Equations []Equation
}

// Arity returns the number of parameters of the type constructor.
func (t *TypeConstructor) Arity() int { return len(t.Params) }

// TermConstructor declares an operation of the theory, such as compose(f, g)::Hom(A, C).
type TermConstructor struct {
	Name    string
	Params  []string
	Context Context
	Type    Term
	Doc     string

	// Equations holds the declared equations followed, after New, by the ones
	// implied by the context.
	Equations []Equation

	// Default, when set, replaces the synthesized "apply head to args" constructor.
	Default DefaultFunc

	resolutions map[string]Term
	declared    int
}

// Arity returns the number of parameters of the term constructor.
func (t *TermConstructor) Arity() int { return len(t.Params) }

// Resolution returns the accessor term that computes a non-parameter context
// variable from the parameters, e.g. A := dom(f).
func (t *TermConstructor) Resolution(name string) (Term, bool) {
	r, ok := t.resolutions[name]
	return r, ok
}

// DeclaredEquations returns only the equations written in the theory.
func (t *TermConstructor) DeclaredEquations() []Equation {
	return t.Equations[:t.declared]
}

// Accessor identifies the type-constructor parameter read by an accessor.
type Accessor struct {
	Type  string
	Param string
	Index int
}

// Signature is the raw input of New.
type Signature struct {
	Name  string
	Doc   string
	Types []TypeConstructor
	Terms []TermConstructor
}

// Theory is a validated, immutable generalized algebraic theory.
// Values returned by its accessors must not be modified.
type Theory struct {
	name  string
	doc   string
	types []*TypeConstructor
	terms []*TermConstructor

	typeIndex map[string]*TypeConstructor
	termIndex map[string]*TermConstructor
	accessors map[string][]Accessor
}

// New validates a signature and derives the resolutions and implied equations of
// every constructor. All problems are reported together in an *AggregateError.
func New(sig Signature) (*Theory, error) {
	th := &Theory{
		name:      sig.Name,
		doc:       sig.Doc,
		typeIndex: make(map[string]*TypeConstructor),
		termIndex: make(map[string]*TermConstructor),
		accessors: make(map[string][]Accessor),
	}
	v := &checker{th: th}

	if sig.Name == "" {
		v.fail("", "theory name is required")
	}

	for _, t := range sig.Types {
		tc := copyType(t)
		if tc.Name == "" {
			v.fail("", "type constructor without a name")
			continue
		}
		if _, dup := th.typeIndex[tc.Name]; dup {
			v.fail(tc.Name, "duplicate type constructor")
			continue
		}
		th.typeIndex[tc.Name] = tc
		th.types = append(th.types, tc)
		for i, p := range tc.Params {
			th.accessors[p] = append(th.accessors[p], Accessor{Type: tc.Name, Param: p, Index: i})
		}
	}

	for _, t := range sig.Terms {
		tc := copyTerm(t)
		if tc.Name == "" {
			v.fail("", "term constructor without a name")
			continue
		}
		if _, dup := th.termIndex[tc.Name]; dup {
			v.fail(tc.Name, "duplicate term constructor")
			continue
		}
		if _, clash := th.typeIndex[tc.Name]; clash {
			v.fail(tc.Name, "name is used by both a type and a term constructor")
			continue
		}
		if _, clash := th.accessors[tc.Name]; clash {
			v.fail(tc.Name, "name is used by both an accessor and a term constructor")
			continue
		}
		th.termIndex[tc.Name] = tc
		th.terms = append(th.terms, tc)
	}

	for _, tc := range th.types {
		v.checkType(tc)
	}
	for _, tc := range th.terms {
		v.checkTerm(tc)
	}
	v.checkCycles()

	if len(v.errs) > 0 {
		return nil, &AggregateError{Theory: sig.Name, Errors: v.errs}
	}
	return th, nil
}

// Name returns the theory name.
func (th *Theory) Name() string { return th.name }

// Doc returns the theory documentation.
func (th *Theory) Doc() string { return th.doc }

// Types returns the type constructors in declaration order.
func (th *Theory) Types() []*TypeConstructor { return slices.Clone(th.types) }

// Terms returns the term constructors in declaration order.
func (th *Theory) Terms() []*TermConstructor { return slices.Clone(th.terms) }

// Type looks up a type constructor by name.
func (th *Theory) Type(name string) (*TypeConstructor, bool) {
	tc, ok := th.typeIndex[name]
	return tc, ok
}

// Term looks up a term constructor by name.
func (th *Theory) Term(name string) (*TermConstructor, bool) {
	tc, ok := th.termIndex[name]
	return tc, ok
}

// TypeArity returns the number of parameters of the named type constructor.
func (th *Theory) TypeArity(name string) (int, bool) {
	tc, ok := th.typeIndex[name]
	if !ok {
		return 0, false
	}
	return tc.Arity(), true
}

// Accessors returns every type-constructor parameter named param.
func (th *Theory) Accessors(param string) []Accessor {
	return slices.Clone(th.accessors[param])
}

// SortOf returns the type constructor produced by the named term constructor.
func (th *Theory) SortOf(term string) (string, bool) {
	tc, ok := th.termIndex[term]
	if !ok {
		return "", false
	}
	return tc.Type.Head, true
}

func (th *Theory) String() string {
	return fmt.Sprintf("theory %s (%d types, %d terms)", th.name, len(th.types), len(th.terms))
}

func copyType(t TypeConstructor) *TypeConstructor {
	return &TypeConstructor{
		Name:      t.Name,
		Params:    slices.Clone(t.Params),
		Context:   slices.Clone(t.Context),
		Doc:       t.Doc,
		Equations: slices.Clone(t.Equations),
	}
}

func copyTerm(t TermConstructor) *TermConstructor {
	return &TermConstructor{
		Name:      t.Name,
		Params:    slices.Clone(t.Params),
		Context:   slices.Clone(t.Context),
		Type:      t.Type,
		Doc:       t.Doc,
		Equations: slices.Clone(t.Equations),
		Default:   t.Default,
	}
}
