// Package functor evaluates expressions of one algebra in another.
//
// A functor is determined by its action on generators: by default a generator
// of type T is rebuilt in the target through the constructor named T (or the
// name given by WithTypes), and every compound term is rebuilt through the
// constructor of the same name. Substitution tables and per-constructor
// overrides refine that default.
package functor

import (
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
)

// TermFunc maps an expression directly to a target value. It receives the
// expression uninterpreted and is responsible for any recursion it needs.
type TermFunc func(e *expr.Expr) (any, error)

// Hooks observe evaluation. Nil fields are skipped.
type Hooks struct {
	// OnEvaluate is called for every expression after its target value is computed.
	OnEvaluate func(e *expr.Expr, out any)
	// OnError is called once, for the expression whose evaluation failed first.
	OnError func(e *expr.Expr, err error)
}

type config struct {
	types      map[string]string
	generators *expr.Map[any]
	terms      map[string]TermFunc
	hooks      Hooks
	logger     *slog.Logger
}

// Option configures evaluation.
type Option func(*config)

// WithTypes maps source type constructors to the target constructors that
// rebuild their generators. Unmapped types keep their name.
func WithTypes(types map[string]string) Option {
	return func(c *config) {
		c.types = maps.Clone(types)
	}
}

// WithGenerators substitutes precomputed target values for specific generators.
func WithGenerators(table *expr.Map[any]) Option {
	return func(c *config) {
		c.generators = table
	}
}

// WithTerms overrides evaluation of the constructors named in terms. Keys are
// term constructor names, or type names for generators.
func WithTerms(terms map[string]TermFunc) Option {
	return func(c *config) {
		c.terms = maps.Clone(terms)
	}
}

// WithHooks registers observability hooks.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.hooks = h
	}
}

// WithLogger sets a structured logger for evaluation diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Functor is a reusable evaluation of expressions into a target algebra.
// It holds no mutable state and may be shared.
type Functor struct {
	target algebra.Algebra
	cfg    config
}

// New creates a functor into target.
func New(target algebra.Algebra, opts ...Option) *Functor {
	f := &Functor{target: target}
	for _, opt := range opts {
		opt(&f.cfg)
	}
	if f.cfg.logger == nil {
		f.cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return f
}

// Evaluate applies a one-off functor into target to e.
func Evaluate(e *expr.Expr, target algebra.Algebra, opts ...Option) (any, error) {
	return New(target, opts...).Apply(e)
}

// Target returns the algebra the functor maps into.
func (f *Functor) Target() algebra.Algebra { return f.target }

// Apply evaluates e in the target algebra.
func (f *Functor) Apply(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("functor: nil expression")
	}
	reported := false
	out, err := f.eval(e, &reported)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *Functor) eval(e *expr.Expr, reported *bool) (any, error) {
	if e.IsGenerator() {
		if v, ok := f.cfg.generators.Get(e); ok {
			f.observe(e, v)
			return v, nil
		}
	}

	name := e.Constructor()
	if fn, ok := f.cfg.terms[name]; ok {
		out, err := fn(e)
		if err != nil {
			return nil, f.fail(e, fmt.Errorf("override for %s failed: %w", name, err), reported)
		}
		f.observe(e, out)
		return out, nil
	}

	if e.IsGenerator() {
		if mapped, ok := f.cfg.types[name]; ok {
			name = mapped
		}
	}

	args := e.CallArgs()
	for i, a := range args {
		sub, ok := a.(*expr.Expr)
		if !ok {
			continue
		}
		v, err := f.eval(sub, reported)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	out, err := f.target.Invoke(name, args)
	if err != nil {
		return nil, f.fail(e, fmt.Errorf("failed to evaluate %s: %w", e, err), reported)
	}
	f.observe(e, out)
	return out, nil
}

func (f *Functor) observe(e *expr.Expr, out any) {
	f.cfg.logger.Debug("Evaluated", "expr", e.String(), "sort", e.Sort())
	if f.cfg.hooks.OnEvaluate != nil {
		f.cfg.hooks.OnEvaluate(e, out)
	}
}

func (f *Functor) fail(e *expr.Expr, err error, reported *bool) error {
	if *reported {
		return err
	}
	*reported = true
	f.cfg.logger.Debug("Evaluation failed", "expr", e.String(), "err", err)
	if f.cfg.hooks.OnError != nil {
		f.cfg.hooks.OnError(e, err)
	}
	return err
}
