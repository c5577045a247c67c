package gatlab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	loamAdapter "github.com/aretw0/gatlab/pkg/adapters/loam"
	"github.com/aretw0/gatlab/pkg/adapters/memory"
	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/functor"
	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/aretw0/gatlab/pkg/sexpr"
	"github.com/aretw0/gatlab/pkg/syntax"
	"github.com/aretw0/gatlab/pkg/theories"
	"github.com/aretw0/gatlab/pkg/theory"
)

// lockTTL bounds how long CreateTerm may hold a distributed lock.
const lockTTL = 5 * time.Second

// Engine is the high-level entry point for the gatlab library.
// It binds a theory to its syntax and a term store, and implements
// ports.TermService for the HTTP and MCP adapters.
type Engine struct {
	theory    *theory.Theory
	syntax    *syntax.Syntax
	loader    ports.TheoryLoader
	store     ports.TermStore
	locker    ports.DistributedLocker
	hooks     syntax.Hooks
	evalHooks functor.Hooks
	logger    *slog.Logger
	mu        sync.Mutex
	Name      string
}

var _ ports.TermService = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithTheory uses th directly, bypassing theory loading.
func WithTheory(th *theory.Theory) Option {
	return func(e *Engine) {
		e.theory = th
	}
}

// WithLoader injects a custom TheoryLoader used to resolve the theory reference.
func WithLoader(l ports.TheoryLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithStore sets the term store (default: in-memory).
func WithStore(s ports.TermStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker makes CreateTerm atomic across processes sharing the store.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithHooks registers construction hooks on the engine's syntax.
func WithHooks(h syntax.Hooks) Option {
	return func(e *Engine) {
		e.hooks = h
	}
}

// WithEvaluationHooks registers hooks applied to every Evaluate call.
func WithEvaluationHooks(h functor.Hooks) Option {
	return func(e *Engine) {
		e.evalHooks = h
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine for the theory named by theoryRef.
// The reference is resolved, in order, by WithTheory, by a loader set with
// WithLoader, or by LoadTheory. With WithTheory, theoryRef may be empty.
func New(theoryRef string, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if eng.theory == nil {
		if theoryRef == "" {
			return nil, fmt.Errorf("theoryRef is required when no theory is provided")
		}
		var err error
		if eng.loader != nil {
			eng.theory, err = eng.loader.LoadTheory(context.Background(), theoryRef)
		} else {
			eng.theory, eng.loader, err = loadTheory(theoryRef)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load theory %s: %w", theoryRef, err)
		}
	}

	eng.Name = eng.theory.Name()
	eng.logger = eng.logger.With("theory", eng.Name)

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	s, err := syntax.New(eng.theory,
		syntax.WithHooks(eng.hooks),
		syntax.WithLogger(eng.logger),
	)
	if err != nil {
		return nil, err
	}
	eng.syntax = s
	return eng, nil
}

// LoadTheory resolves a theory reference without creating an engine: a built-in
// name (see theories.Names), a YAML file (.yaml, .yml) or a Markdown theory
// document (.md) read through Loam.
func LoadTheory(ref string) (*theory.Theory, error) {
	th, _, err := loadTheory(ref)
	return th, err
}

func loadTheory(ref string) (*theory.Theory, ports.TheoryLoader, error) {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".yaml", ".yml":
		th, err := theory.Load(ref)
		return th, nil, err
	case ".md":
		l, err := loamAdapter.Open(filepath.Dir(ref))
		if err != nil {
			return nil, nil, err
		}
		th, err := l.LoadTheory(context.Background(), filepath.Base(ref))
		return th, l, err
	default:
		th, err := theories.Lookup(ref)
		return th, nil, err
	}
}

// Theory returns the theory served by the engine.
func (e *Engine) Theory() *theory.Theory { return e.theory }

// Syntax returns the free algebra of the theory.
func (e *Engine) Syntax() *syntax.Syntax { return e.syntax }

// Store returns the term store.
func (e *Engine) Store() ports.TermStore { return e.store }

// Decode rebuilds an expression from wire data. Bare strings in expression
// position are loaded from the term store by name. In strict mode every
// constructor application, including the ones inside referenced terms, is
// checked against its equations.
func (e *Engine) Decode(ctx context.Context, sexp any, strict bool) (*expr.Expr, error) {
	var target algebra.Algebra = e.syntax
	if strict {
		target = syntax.Strict(e.syntax)
	}

	var dec *sexpr.Decoder
	loading := make(map[string]bool)
	resolve := func(name string) (any, error) {
		if loading[name] {
			return nil, fmt.Errorf("term %s refers to itself", name)
		}
		loading[name] = true
		defer delete(loading, name)

		stored, err := e.store.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		return dec.Decode(stored)
	}
	dec = sexpr.NewDecoder(e.theory, target, sexpr.WithReferenceResolver(resolve))

	out, err := dec.Decode(sexp)
	if err != nil {
		return nil, err
	}
	x, ok := out.(*expr.Expr)
	if !ok {
		return nil, fmt.Errorf("%w: decoded %T, not an expression", sexpr.ErrMalformed, out)
	}
	return x, nil
}

// Check decodes wire data in strict mode.
func (e *Engine) Check(ctx context.Context, sexp any) (*expr.Expr, error) {
	x, err := e.Decode(ctx, sexp, true)
	if err != nil {
		e.logger.Debug("Check failed", "err", err)
		return nil, err
	}
	return x, nil
}

// Encode converts an expression to wire data.
func (e *Engine) Encode(x *expr.Expr) (any, error) {
	return sexpr.Encode(x)
}

// Evaluate applies the functor from the engine's syntax into target.
func (e *Engine) Evaluate(x *expr.Expr, target algebra.Algebra, opts ...functor.Option) (any, error) {
	base := []functor.Option{functor.WithLogger(e.logger), functor.WithHooks(e.evalHooks)}
	return functor.Evaluate(x, target, append(base, opts...)...)
}

// Terms lists the names of stored terms.
func (e *Engine) Terms(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// LoadTerm loads and decodes a stored term. Stored terms are trusted and
// decoded without checking equations.
func (e *Engine) LoadTerm(ctx context.Context, name string) (*expr.Expr, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}
	stored, err := e.store.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.Decode(ctx, stored, false)
}

// SaveTerm encodes x and stores it under name, replacing any previous term.
func (e *Engine) SaveTerm(ctx context.Context, name string, x *expr.Expr) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	sexp, err := e.Encode(x)
	if err != nil {
		return err
	}
	if err := e.store.Save(ctx, name, sexp); err != nil {
		return err
	}
	e.logger.Debug("Term saved", "name", name, "expr", x.String())
	return nil
}

// CreateTerm stores x under name unless a term with that name exists.
func (e *Engine) CreateTerm(ctx context.Context, name string, x *expr.Expr) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, "create:"+name, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to lock term %s: %w", name, err)
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				e.logger.Warn("Failed to release term lock", "name", name, "err", err)
			}
		}()
	} else {
		e.mu.Lock()
		defer e.mu.Unlock()
	}

	_, err := e.store.Load(ctx, name)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ports.ErrTermExists, name)
	case !errors.Is(err, ports.ErrTermNotFound):
		return err
	}
	return e.SaveTerm(ctx, name, x)
}

// DeleteTerm removes a stored term. The stored value is not decoded, so terms
// that no longer check against the theory can still be removed.
// Returns ports.ErrTermNotFound if nothing is stored under name.
func (e *Engine) DeleteTerm(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	if _, err := e.store.Load(ctx, name); err != nil {
		return err
	}
	return e.store.Delete(ctx, name)
}

// Watch returns a channel that signals when the theory source changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current theory source does not support watching")
}
