// Package api exposes the note-structuring pipeline over HTTP. Note text
// only ever travels between the caller and this process; nothing is
// forwarded anywhere else.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notekit/chartparse/internal/config"
	"github.com/notekit/chartparse/internal/pipeline"
)

// Server is the HTTP API server for chartparse.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	enricher     pipeline.Enricher // optional; nil disables enrichment
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. enricher may be nil.
func NewServer(orch *pipeline.Orchestrator, enricher pipeline.Enricher, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		enricher:     enricher,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints (auth is a no-op when no key is set).
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/notes", s.handleSubmitNote)
		r.Get("/api/notes/{jobID}", s.handleNoteStatus)
		r.Get("/api/stats/parse", s.handleParseStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
