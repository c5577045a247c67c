package observability

import (
	"log/slog"

	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/functor"
	"github.com/aretw0/gatlab/pkg/syntax"
)

// LogHooks returns syntax hooks that log every construction at debug level and
// every domain error at warn level.
func LogHooks(logger *slog.Logger) syntax.Hooks {
	return syntax.Hooks{
		OnConstruct: func(e *expr.Expr) {
			logger.Debug("expression constructed", "expr", e.String(), "sort", e.Sort())
		},
		OnDomainError: func(err *syntax.DomainError) {
			logger.Warn("domain error", "constructor", err.Constructor, "equation", err.Equation)
		},
	}
}

// ChainSyntaxHooks calls each set of hooks in order.
func ChainSyntaxHooks(hooks ...syntax.Hooks) syntax.Hooks {
	return syntax.Hooks{
		OnConstruct: func(e *expr.Expr) {
			for _, h := range hooks {
				if h.OnConstruct != nil {
					h.OnConstruct(e)
				}
			}
		},
		OnDomainError: func(err *syntax.DomainError) {
			for _, h := range hooks {
				if h.OnDomainError != nil {
					h.OnDomainError(err)
				}
			}
		},
	}
}

// ChainFunctorHooks calls each set of hooks in order.
func ChainFunctorHooks(hooks ...functor.Hooks) functor.Hooks {
	return functor.Hooks{
		OnEvaluate: func(e *expr.Expr, out any) {
			for _, h := range hooks {
				if h.OnEvaluate != nil {
					h.OnEvaluate(e, out)
				}
			}
		},
		OnError: func(e *expr.Expr, err error) {
			for _, h := range hooks {
				if h.OnError != nil {
					h.OnError(e, err)
				}
			}
		},
	}
}
