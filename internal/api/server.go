// Package api exposes the layout pipeline and document storage over HTTP.
//
// The server is deliberately small: one endpoint to lay out a graph, CRUD
// for stored documents, and a health check. All request and response
// bodies are JSON. Errors use a stable envelope with the structured error
// code, so clients can branch on codes instead of parsing messages.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/patchwire/patchwire/pkg/observability"
	"github.com/patchwire/patchwire/pkg/pipeline"
	"github.com/patchwire/patchwire/pkg/store"
)

// Server handles HTTP requests for layout computation and document
// storage.
type Server struct {
	runner *pipeline.Runner
	store  store.DocumentStore
	logger *log.Logger
}

// NewServer creates a server around the given runner. The store may be
// nil, in which case document endpoints respond 501.
func NewServer(runner *pipeline.Runner, docs store.DocumentStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		store:  docs,
		logger: logger,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)
			r.Get("/{id}", s.handleGetDocument)
			r.Put("/{id}", s.handlePutDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
		})
	})

	return r
}

// observe logs each request and forwards lifecycle events to the
// registered server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.Server().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.Server().OnResponse(ctx, r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
