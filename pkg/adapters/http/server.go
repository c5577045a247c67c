// Package http exposes a term service as a JSON API.
//
// Request and response bodies carry terms in their S-expression wire form, e.g.
// {"sexp": ["compose", "f", "g"]}. Numbers inside sexp keep their integer or
// float form.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/gatlab"
	"github.com/aretw0/gatlab/pkg/algebra"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/aretw0/gatlab/pkg/sexpr"
	"github.com/aretw0/gatlab/pkg/syntax"
	"github.com/aretw0/gatlab/pkg/theory"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Server serves a ports.TermService.
type Server struct {
	Service  ports.TermService
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// TermResponse describes a decoded term.
type TermResponse struct {
	Name string `json:"name,omitempty"`
	Expr string `json:"expr"`
	Type string `json:"type"`
	Sexp any    `json:"sexp"`
}

// TermRequest is the body of POST /terms, PUT /terms/{name} and POST /terms/check.
// Name is only read by POST /terms; when empty a UUID is assigned.
type TermRequest struct {
	Name string          `json:"name,omitempty"`
	Sexp json.RawMessage `json:"sexp"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc ports.TermService, opts ...Option) http.Handler {
	s := &Server{
		Service:  svc,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/theory", s.GetTheory)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Route("/terms", func(r chi.Router) {
		r.Get("/", s.ListTerms)
		r.Post("/", s.CreateTerm)
		r.Post("/check", s.CheckTerm)
		r.Get("/{name}", s.GetTerm)
		r.Put("/{name}", s.PutTerm)
		r.Delete("/{name}", s.DeleteTerm)
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":     "gatlab-http",
		"version": strings.TrimSpace(gatlab.Version),
		"theory":  s.Service.Theory().Name(),
	})
}

// GetTheory handles the GET /theory request. The theory is returned in its
// document form, the same shape as YAML theory files.
func (s *Server) GetTheory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, theory.ToDocument(s.Service.Theory()))
}

// CheckTerm handles the POST /terms/check request: strict decoding without storing.
func (s *Server) CheckTerm(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readTerm(w, r)
	if !ok {
		return
	}
	e, err := s.check(r, req.Sexp)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTerm(w, http.StatusOK, "", e)
}

// ListTerms handles the GET /terms request.
func (s *Server) ListTerms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Service.Terms(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, s.Logger, http.StatusOK, map[string][]string{"terms": names})
}

// CreateTerm handles the POST /terms request.
func (s *Server) CreateTerm(w http.ResponseWriter, r *http.Request) {
	req, ok := s.readTerm(w, r)
	if !ok {
		return
	}
	e, err := s.check(r, req.Sexp)
	if err != nil {
		s.writeError(w, err)
		return
	}
	name := req.Name
	if name == "" {
		name = uuid.NewString()
	}
	if err := s.Service.CreateTerm(r.Context(), name, e); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/terms/"+name)
	s.writeTerm(w, http.StatusCreated, name, e)
}

// GetTerm handles the GET /terms/{name} request.
func (s *Server) GetTerm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	e, err := s.Service.LoadTerm(r.Context(), name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTerm(w, http.StatusOK, name, e)
}

// PutTerm handles the PUT /terms/{name} request, replacing any stored term.
func (s *Server) PutTerm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	req, ok := s.readTerm(w, r)
	if !ok {
		return
	}
	e, err := s.check(r, req.Sexp)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Service.SaveTerm(r.Context(), name, e); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeTerm(w, http.StatusOK, name, e)
}

// DeleteTerm handles the DELETE /terms/{name} request.
func (s *Server) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Service.DeleteTerm(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles the GET /events request (SSE), streaming the
// reference of every changed theory source.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	watchable, ok := s.Service.(ports.Watchable)
	if !ok {
		s.writeError(w, fmt.Errorf("%w: theory source does not support watching", errUnsupported))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	events, err := watchable.Watch(r.Context())
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errUnsupported, err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

var errUnsupported = errors.New("unsupported")

// -- Helpers --

func (s *Server) readTerm(w http.ResponseWriter, r *http.Request) (TermRequest, bool) {
	var req TermRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeJSON(w, s.Logger, http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Kind: "bad_request"})
		return req, false
	}
	if len(req.Sexp) == 0 {
		writeJSON(w, s.Logger, http.StatusBadRequest, ErrorResponse{Error: "missing sexp", Kind: "bad_request"})
		return req, false
	}
	return req, true
}

func (s *Server) check(r *http.Request, raw json.RawMessage) (*expr.Expr, error) {
	v, err := sexpr.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadSexp, err)
	}
	return s.Service.Check(r.Context(), v)
}

var errBadSexp = errors.New("malformed sexp")

func (s *Server) writeTerm(w http.ResponseWriter, status int, name string, e *expr.Expr) {
	sexp, err := s.Service.Encode(e)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, s.Logger, status, TermResponse{
		Name: name,
		Expr: e.String(),
		Type: strings.TrimPrefix(e.Signature(), e.String()+" : "),
		Sexp: sexp,
	})
}

// writeError maps the error taxonomy to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		domainErr  *syntax.DomainError
		argErr     *syntax.ArgumentError
		unknownErr *algebra.UnknownConstructorError
	)
	status, kind := http.StatusInternalServerError, "internal"
	switch {
	case errors.As(err, &domainErr):
		status, kind = http.StatusUnprocessableEntity, "domain_error"
	case errors.As(err, &argErr):
		status, kind = http.StatusUnprocessableEntity, "argument_error"
	case errors.As(err, &unknownErr):
		status, kind = http.StatusUnprocessableEntity, "unknown_constructor"
	case errors.Is(err, ports.ErrTermNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, ports.ErrTermExists):
		status, kind = http.StatusConflict, "conflict"
	case errors.Is(err, ports.ErrInvalidName), errors.Is(err, errBadSexp), errors.Is(err, sexpr.ErrMalformed):
		status, kind = http.StatusBadRequest, "bad_request"
	case errors.Is(err, errUnsupported):
		status, kind = http.StatusNotImplemented, "unsupported"
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("Request failed", "error", err)
	} else {
		s.Logger.Debug("Request rejected", "kind", kind, "error", err)
	}
	writeJSON(w, s.Logger, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
