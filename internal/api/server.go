// Package api implements the HTTP API for serve mode: level generation,
// retrieval, and rendering over REST.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/levelforge/levelforge/pkg/cache"
	"github.com/levelforge/levelforge/pkg/observability"
	"github.com/levelforge/levelforge/pkg/store"
)

// Config configures the API server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Store persists generated levels. Required.
	Store store.Store

	// Cache holds rendered artifacts. Defaults to a null cache.
	Cache cache.Cache

	// CacheTTL bounds artifact cache entries. Defaults to one hour.
	CacheTTL time.Duration

	// Logger receives request logs. Defaults to the package default logger.
	Logger *log.Logger
}

// Server serves the level generation API.
type Server struct {
	cfg   Config
	keyer cache.Keyer
	http  *http.Server
}

// New creates a server. The router is assembled once here; Routes exposes it
// for tests.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{cfg: cfg, keyer: cache.NewDefaultKeyer()}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the chi router with all API endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/levels", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/ascii", s.handleASCII)
			r.Get("/graph.svg", s.handleRoomGraph)
			r.Get("/iso.html", s.handleIso)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// logRequests logs each request and feeds the API observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.API().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.API().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed,
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
