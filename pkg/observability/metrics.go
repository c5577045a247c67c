package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/functor"
	"github.com/aretw0/gatlab/pkg/syntax"
)

// Metrics holds the Prometheus collectors fed by the construction and evaluation hooks.
type Metrics struct {
	Constructed      *prometheus.CounterVec
	DomainErrors     *prometheus.CounterVec
	Evaluated        *prometheus.CounterVec
	EvaluationErrors *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Constructed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatlab_expressions_constructed_total",
				Help: "Total number of expressions built by a syntax algebra",
			},
			[]string{"constructor", "sort"},
		),
		DomainErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatlab_domain_errors_total",
				Help: "Total number of strict constructions rejected by an equation",
			},
			[]string{"constructor"},
		),
		Evaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatlab_functor_evaluations_total",
				Help: "Total number of expressions evaluated by functors",
			},
			[]string{"constructor"},
		),
		EvaluationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatlab_functor_errors_total",
				Help: "Total number of failed functor evaluations",
			},
			[]string{"constructor", "kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Constructed, m.DomainErrors, m.Evaluated, m.EvaluationErrors)
	}
	return m
}

// SyntaxHooks records constructions and domain errors.
func (m *Metrics) SyntaxHooks() syntax.Hooks {
	return syntax.Hooks{
		OnConstruct: func(e *expr.Expr) {
			m.Constructed.WithLabelValues(e.Constructor(), e.Sort()).Inc()
		},
		OnDomainError: func(err *syntax.DomainError) {
			m.DomainErrors.WithLabelValues(err.Constructor).Inc()
		},
	}
}

// FunctorHooks records evaluations and failures.
func (m *Metrics) FunctorHooks() functor.Hooks {
	return functor.Hooks{
		OnEvaluate: func(e *expr.Expr, _ any) {
			m.Evaluated.WithLabelValues(e.Constructor()).Inc()
		},
		OnError: func(e *expr.Expr, err error) {
			m.EvaluationErrors.WithLabelValues(e.Constructor(), errorKind(err)).Inc()
		},
	}
}

func errorKind(err error) string {
	var domainErr *syntax.DomainError
	var argErr *syntax.ArgumentError
	switch {
	case errors.As(err, &domainErr):
		return "domain"
	case errors.As(err, &argErr):
		return "argument"
	default:
		return "other"
	}
}
