package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/gatlab/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.TermStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation at debug level, and failures
// other than missing terms at warn level.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.TermStore) ports.TermStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(op, name string, start time.Time, err error) {
	attrs := []any{"op", op, "name", name, "duration", time.Since(start)}
	if err != nil && !errors.Is(err, ports.ErrTermNotFound) {
		m.logger.Warn("Term store operation failed", append(attrs, "error", err)...)
		return
	}
	m.logger.Debug("Term store operation", attrs...)
}

func (m *loggingMiddleware) Save(ctx context.Context, name string, sexp any) error {
	start := time.Now()
	err := m.next.Save(ctx, name, sexp)
	m.log("save", name, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, name string) (any, error) {
	start := time.Now()
	v, err := m.next.Load(ctx, name)
	m.log("load", name, start, err)
	return v, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := m.next.Delete(ctx, name)
	m.log("delete", name, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := m.next.List(ctx)
	m.log("list", "", start, err)
	return names, err
}
