package syntax

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"

	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/theory"
)

// Call describes one constructor application handed to an override.
type Call struct {
	Syntax *Syntax
	Name   string
	Args   []any
	Strict bool
}

// Build runs the synthesized constructor for the call, ignoring overrides and
// theory defaults. Overrides use it to delegate after rewriting arguments.
func (c Call) Build() (*expr.Expr, error) {
	tc, ok := c.Syntax.theory.Term(c.Name)
	if !ok {
		return nil, &algebra.UnknownConstructorError{Algebra: c.Syntax.theory.Name(), Name: c.Name}
	}
	return c.Syntax.build(tc, c.Args, c.Strict, nil)
}

// Func is custom construction logic registered with WithOverride.
type Func func(c Call) (*expr.Expr, error)

// Hooks observe construction. Nil fields are skipped.
type Hooks struct {
	OnConstruct   func(e *expr.Expr)
	OnDomainError func(err *DomainError)
}

// Option configures a Syntax.
type Option func(*Syntax)

// WithOverride replaces the constructor registered under name with custom logic.
// Overrides take precedence over theory defaults and the synthesized constructor.
func WithOverride(name string, fn Func) Option {
	return func(s *Syntax) {
		s.overrides[name] = fn
	}
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(s *Syntax) {
		s.hooks = h
	}
}

// WithLogger sets a structured logger for construction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syntax) {
		s.logger = logger
	}
}

type kind int

const (
	termKind kind = iota
	generatorKind
	accessorKind
)

type descriptor struct {
	kind kind
	term *theory.TermConstructor
	typ  *theory.TypeConstructor
}

// Syntax is the free algebra of expressions of a theory.
// It is read-only after New and safe to share.
type Syntax struct {
	theory    *theory.Theory
	table     map[string]descriptor
	overrides map[string]Func
	hooks     Hooks
	logger    *slog.Logger
}

var _ algebra.Algebra = (*Syntax)(nil)

// New builds the constructor table of th.
func New(th *theory.Theory, opts ...Option) (*Syntax, error) {
	if th == nil {
		return nil, fmt.Errorf("syntax: theory is required")
	}
	s := &Syntax{
		theory:    th,
		table:     make(map[string]descriptor),
		overrides: make(map[string]Func),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for _, tc := range th.Types() {
		s.table[tc.Name] = descriptor{kind: generatorKind, typ: tc}
		for _, p := range tc.Params {
			s.table[p] = descriptor{kind: accessorKind}
		}
	}
	for _, tc := range th.Terms() {
		s.table[tc.Name] = descriptor{kind: termKind, term: tc}
	}

	for name := range s.overrides {
		if d, ok := s.table[name]; !ok || d.kind == accessorKind {
			return nil, fmt.Errorf("syntax: override for unknown constructor %q", name)
		}
	}
	return s, nil
}

// Theory returns the theory of the syntax.
func (s *Syntax) Theory() *theory.Theory { return s.theory }

// Constructors returns every invocable name (term, generator and accessor), sorted.
func (s *Syntax) Constructors() []string {
	names := make([]string, 0, len(s.table))
	for name := range s.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Term applies a term constructor without checking its equations.
func (s *Syntax) Term(name string, args ...any) (*expr.Expr, error) {
	return s.Apply(name, args, false)
}

// Check applies a term constructor and fails with a *DomainError when its
// equations do not hold.
func (s *Syntax) Check(name string, args ...any) (*expr.Expr, error) {
	return s.Apply(name, args, true)
}

// Generator creates a generator of type typeName wrapping value. params are the
// type arguments, e.g. dom and codom for Hom.
func (s *Syntax) Generator(typeName string, value any, params ...*expr.Expr) (*expr.Expr, error) {
	return s.Apply(typeName, generatorArgs(value, params), false)
}

// CheckGenerator is Generator with the type constructor's equations enforced.
func (s *Syntax) CheckGenerator(typeName string, value any, params ...*expr.Expr) (*expr.Expr, error) {
	return s.Apply(typeName, generatorArgs(value, params), true)
}

// Invoke implements algebra.Algebra. It dispatches to term constructors,
// generator constructors (by type name) and accessors without strict validation.
func (s *Syntax) Invoke(name string, args []any) (any, error) {
	e, err := s.Apply(name, args, false)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Apply is the single construction routine behind every constructor of the syntax.
func (s *Syntax) Apply(name string, args []any, strict bool) (*expr.Expr, error) {
	return s.call(name, args, strict, nil)
}

func (s *Syntax) call(name string, args []any, strict bool, stack []string) (*expr.Expr, error) {
	d, ok := s.table[name]
	if !ok {
		return nil, &algebra.UnknownConstructorError{Algebra: s.theory.Name(), Name: name}
	}

	switch d.kind {
	case accessorKind:
		if len(args) != 1 {
			return nil, &ArgumentError{Constructor: name, Reason: fmt.Sprintf("accessor takes 1 argument, got %d", len(args))}
		}
		e, ok := args[0].(*expr.Expr)
		if !ok || e == nil {
			return nil, &ArgumentError{Constructor: name, Reason: fmt.Sprintf("accessor argument must be an expression, got %T", args[0])}
		}
		return s.Access(name, e)
	case generatorKind:
		if fn, ok := s.overrides[name]; ok {
			return s.finish(fn(Call{Syntax: s, Name: name, Args: slices.Clone(args), Strict: strict}))
		}
		return s.generator(d.typ, args, strict)
	}

	if fn, ok := s.overrides[name]; ok {
		return s.finish(fn(Call{Syntax: s, Name: name, Args: slices.Clone(args), Strict: strict}))
	}
	if d.term.Default != nil {
		var inv algebra.Algebra = s
		if strict {
			inv = Strict(s)
		}
		out, err := d.term.Default(inv, slices.Clone(args))
		if err != nil {
			return nil, err
		}
		e, ok := out.(*expr.Expr)
		if !ok {
			return nil, fmt.Errorf("default implementation of %s returned %T, not an expression", name, out)
		}
		return e, nil
	}
	return s.build(d.term, args, strict, stack)
}

func (s *Syntax) finish(e *expr.Expr, err error) (*expr.Expr, error) {
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("override returned no expression")
	}
	return e, nil
}

// build is the synthesized "apply head to args" constructor of a term constructor.
func (s *Syntax) build(tc *theory.TermConstructor, args []any, strict bool, stack []string) (*expr.Expr, error) {
	if err := s.checkArgs(tc.Name, tc.Params, tc.Context, args); err != nil {
		return nil, err
	}
	env := s.newEnv(tc.Context, tc.Params, args, tc.Resolution)
	stack = append(stack, tc.Name)

	if strict {
		if err := s.validate(tc.Name, tc.Equations, env, args, stack); err != nil {
			return nil, err
		}
	}

	typeArgs, err := s.typeArgs(tc, env, stack)
	if err != nil {
		return nil, err
	}

	e := expr.New(tc.Type.Head, tc.Name, args, typeArgs)
	s.logger.Debug("Construct", "constructor", tc.Name, "expr", e.String(), "strict", strict)
	if s.hooks.OnConstruct != nil {
		s.hooks.OnConstruct(e)
	}
	return e, nil
}

func (s *Syntax) typeArgs(tc *theory.TermConstructor, env *env, stack []string) ([]*expr.Expr, error) {
	out := make([]*expr.Expr, 0, len(tc.Type.Args))
	for _, t := range tc.Type.Args {
		v, err := s.eval(env, t, stack)
		if err != nil {
			return nil, fmt.Errorf("failed to compute type of %s: %w", tc.Name, err)
		}
		e, ok := v.(*expr.Expr)
		if !ok {
			return nil, fmt.Errorf("failed to compute type of %s: %s evaluated to %T, not an expression", tc.Name, t, v)
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Syntax) generator(tc *theory.TypeConstructor, args []any, strict bool) (*expr.Expr, error) {
	if len(args) == 0 {
		return nil, &ArgumentError{Constructor: tc.Name, Reason: "generator requires a value argument"}
	}
	value, params := args[0], args[1:]
	if err := s.checkArgs(tc.Name, tc.Params, tc.Context, params); err != nil {
		return nil, err
	}
	if strict && len(tc.Equations) > 0 {
		env := s.newEnv(tc.Context, tc.Params, params, nil)
		if err := s.validate(tc.Name, tc.Equations, env, args, nil); err != nil {
			return nil, err
		}
	}

	typeArgs := make([]*expr.Expr, len(params))
	for i, p := range params {
		typeArgs[i] = p.(*expr.Expr)
	}
	e := expr.NewGenerator(tc.Name, value, typeArgs)
	if s.hooks.OnConstruct != nil {
		s.hooks.OnConstruct(e)
	}
	return e, nil
}

// Access applies the accessor for type-constructor parameter param to e,
// returning the corresponding type argument. Accessors sharing a name across type
// constructors dispatch on the sort of e.
func (s *Syntax) Access(param string, e *expr.Expr) (*expr.Expr, error) {
	accessors := s.theory.Accessors(param)
	if len(accessors) == 0 {
		return nil, &algebra.UnknownConstructorError{Algebra: s.theory.Name(), Name: param}
	}
	if e == nil {
		return nil, &ArgumentError{Constructor: param, Reason: "nil expression"}
	}
	for _, a := range accessors {
		if a.Type != e.Sort() {
			continue
		}
		if a.Index >= len(e.TypeArgs()) {
			return nil, &ArgumentError{Constructor: param, Reason: fmt.Sprintf("%s has no type argument %d", e, a.Index)}
		}
		return e.TypeArg(a.Index), nil
	}
	return nil, &ArgumentError{Constructor: param, Reason: fmt.Sprintf("not defined on sort %s", e.Sort())}
}

// checkArgs verifies arity and, for parameters typed by a type constructor, the
// sort of each argument.
func (s *Syntax) checkArgs(name string, params []string, ctx theory.Context, args []any) error {
	if len(args) != len(params) {
		return &ArgumentError{Constructor: name, Reason: fmt.Sprintf("expected %d arguments, got %d", len(params), len(args))}
	}
	for i, p := range params {
		typ, _ := ctx.Lookup(p)
		e, ok := args[i].(*expr.Expr)
		if !ok || e == nil {
			return &ArgumentError{Constructor: name, Reason: fmt.Sprintf("argument %s must be a %s expression, got %T", p, typ.Head, args[i])}
		}
		if e.Sort() != typ.Head {
			return &ArgumentError{Constructor: name, Reason: fmt.Sprintf("argument %s must have sort %s, got %s", p, typ.Head, e.Sort())}
		}
	}
	return nil
}

func generatorArgs(value any, params []*expr.Expr) []any {
	args := make([]any, 0, 1+len(params))
	args = append(args, value)
	for _, p := range params {
		args = append(args, p)
	}
	return args
}

// Strict returns a view of s whose Invoke validates equations on every call.
func Strict(s *Syntax) algebra.Algebra {
	return strictSyntax{s}
}

type strictSyntax struct {
	s *Syntax
}

func (v strictSyntax) Invoke(name string, args []any) (any, error) {
	e, err := v.s.Apply(name, args, true)
	if err != nil {
		return nil, err
	}
	return e, nil
}
