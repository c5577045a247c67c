package syntax

import (
	"fmt"
	"slices"

	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/theory"
)

// env binds the variables of a constructor's context during one application.
// Parameters are bound up front; other context variables are computed on first
// use from their resolution (e.g. A := dom(f)).
type env struct {
	ctx     theory.Context
	vals    map[string]any
	resolve func(string) (theory.Term, bool)
}

func (s *Syntax) newEnv(ctx theory.Context, params []string, args []any, resolve func(string) (theory.Term, bool)) *env {
	vals := make(map[string]any, len(params))
	for i, p := range params {
		vals[p] = args[i]
	}
	return &env{ctx: ctx, vals: vals, resolve: resolve}
}

// validate evaluates each equation over the supplied arguments and compares both
// sides with expr.ValueEqual.
func (s *Syntax) validate(name string, eqs []theory.Equation, env *env, args []any, stack []string) error {
	for _, eq := range eqs {
		lhs, err := s.eval(env, eq.Lhs, stack)
		if err != nil {
			return fmt.Errorf("failed to evaluate %s: %w", eq, err)
		}
		rhs, err := s.eval(env, eq.Rhs, stack)
		if err != nil {
			return fmt.Errorf("failed to evaluate %s: %w", eq, err)
		}
		if !expr.ValueEqual(lhs, rhs) {
			derr := &DomainError{Constructor: name, Args: slices.Clone(args), Equation: eq.String()}
			s.logger.Debug("Domain error", "constructor", name, "equation", eq.String())
			if s.hooks.OnDomainError != nil {
				s.hooks.OnDomainError(derr)
			}
			return derr
		}
	}
	return nil
}

// eval interprets a theory term: context variables, accessor applications and
// term constructor applications.
func (s *Syntax) eval(env *env, t theory.Term, stack []string) (any, error) {
	if t.IsSymbol() && env.ctx.Has(t.Head) {
		if v, ok := env.vals[t.Head]; ok {
			return v, nil
		}
		if env.resolve != nil {
			if r, ok := env.resolve(t.Head); ok {
				v, err := s.eval(env, r, stack)
				if err != nil {
					return nil, err
				}
				env.vals[t.Head] = v
				return v, nil
			}
		}
		return nil, fmt.Errorf("variable %s cannot be resolved", t.Head)
	}

	args := make([]any, len(t.Args))
	for i, a := range t.Args {
		v, err := s.eval(env, a, stack)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if tc, ok := s.theory.Term(t.Head); ok {
		if slices.Contains(stack, tc.Name) {
			// Already expanding tc: use its declared sort without expanding its type again.
			if err := s.checkArgs(tc.Name, tc.Params, tc.Context, args); err != nil {
				return nil, err
			}
			return expr.New(tc.Type.Head, tc.Name, args, nil), nil
		}
		return s.call(tc.Name, args, false, stack)
	}

	if len(args) == 1 && len(s.theory.Accessors(t.Head)) > 0 {
		e, ok := args[0].(*expr.Expr)
		if !ok {
			return nil, fmt.Errorf("accessor %s applied to %T", t.Head, args[0])
		}
		return s.Access(t.Head, e)
	}

	return nil, fmt.Errorf("cannot evaluate %s", t)
}
