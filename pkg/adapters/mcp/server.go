// Package mcp exposes a term service as a Model Context Protocol server, so
// that agents can inspect the theory and check terms.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/gatlab"
	"github.com/aretw0/gatlab/pkg/expr"
	"github.com/aretw0/gatlab/pkg/ports"
	"github.com/aretw0/gatlab/pkg/sexpr"
	"github.com/aretw0/gatlab/pkg/theory"
)

const theoryURI = "gatlab://theory"

// TermResult aligns with the HTTP TermResponse and provides a unified structure across adapters.
type TermResult struct {
	Name string `json:"name,omitempty" jsonschema_description:"Name of the stored term"`
	Expr string `json:"expr" jsonschema_description:"The term in head(args) notation"`
	Type string `json:"type" jsonschema_description:"The type of the term"`
	Sexp any    `json:"sexp" jsonschema_description:"The term as a JSON S-expression"`
}

// Server wraps a term service and exposes it as an MCP Server.
type Server struct {
	service   ports.TermService
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(service ports.TermService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		service:   service,
		logger:    logger,
		mcpServer: server.NewMCPServer("gatlab-mcp", strings.TrimSpace(gatlab.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: describe_theory
	s.mcpServer.AddTool(mcp.NewTool("describe_theory",
		mcp.WithDescription("Describe the theory: its type constructors, term constructors and their equations."),
	), s.handleDescribeTheory)

	// TOOL: check_term
	checkTool := mcp.NewTool("check_term",
		mcp.WithDescription("Check a term against the theory in strict mode. Bare strings refer to stored terms."),
		mcp.WithString("sexp", mcp.Required(), mcp.Description(`The term as a JSON S-expression, e.g. ["compose","f","g"]`)),
		mcp.WithOutputSchema[TermResult](),
	)
	s.mcpServer.AddTool(checkTool, mcp.NewStructuredToolHandler(s.handleCheckTerm))

	// TOOL: list_terms
	s.mcpServer.AddTool(mcp.NewTool("list_terms",
		mcp.WithDescription("List the names of stored terms."),
	), s.handleListTerms)

	// TOOL: load_term
	loadTool := mcp.NewTool("load_term",
		mcp.WithDescription("Load a stored term by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored term")),
		mcp.WithOutputSchema[TermResult](),
	)
	s.mcpServer.AddTool(loadTool, mcp.NewStructuredToolHandler(s.handleLoadTerm))
}

func (s *Server) handleDescribeTheory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(theory.ToDocument(s.service.Theory()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.service.Terms(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if names == nil {
		names = []string{}
	}
	jsonBytes, _ := json.Marshal(names)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// Handler methods for structured tools

func (s *Server) handleCheckTerm(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TermResult, error) {
	raw, _ := args["sexp"].(string)
	v, err := sexpr.FromJSON([]byte(raw))
	if err != nil {
		return TermResult{}, fmt.Errorf("malformed sexp: %w", err)
	}
	e, err := s.service.Check(ctx, v)
	if err != nil {
		s.logger.Debug("MCP check_term: rejected", "error", err)
		return TermResult{}, err
	}
	return s.result("", e)
}

func (s *Server) handleLoadTerm(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TermResult, error) {
	name, _ := args["name"].(string)
	e, err := s.service.LoadTerm(ctx, name)
	if err != nil {
		return TermResult{}, fmt.Errorf("load failed: %w", err)
	}
	return s.result(name, e)
}

func (s *Server) result(name string, e *expr.Expr) (TermResult, error) {
	wire, err := s.service.Encode(e)
	if err != nil {
		return TermResult{}, err
	}
	return TermResult{
		Name: name,
		Expr: e.String(),
		Type: strings.TrimPrefix(e.Signature(), e.String()+" : "),
		Sexp: wire,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: gatlab://theory
	s.mcpServer.AddResource(mcp.NewResource(theoryURI, "Theory Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(theory.ToDocument(s.service.Theory()))
		if err != nil {
			return nil, fmt.Errorf("failed to encode theory: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      theoryURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
