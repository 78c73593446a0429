package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tilemux/tilemux/internal/log"
)

// RouterOptions controls the middleware around the admin API.
type RouterOptions struct {
	PrivateOnly bool
}

// NewRouter builds the daemon router: the admin dispatcher mounted under
// /api, plus health and metrics endpoints.
func NewRouter(configPath string, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	r.Use(Metrics)
	if opts.PrivateOnly {
		r.Use(PrivateSubnetOnly)
	}
	r.Use(CORS)
	r.Use(JSONContentType)

	// The dispatcher does its own routing below /api
	d := NewDispatcher(configPath)
	r.Handle(APIPrefix, d)
	r.Handle(APIPrefix+"/*", d)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Server is the admin HTTP server.
type Server struct {
	httpServer *http.Server
}

// NewServer creates the admin server for the document at configPath.
func NewServer(configPath string, bindAddr string, opts RouterOptions) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         bindAddr,
			Handler:      NewRouter(configPath, opts),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	log.Infof("Admin API listening on http://%s%s", s.httpServer.Addr, APIPrefix)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("Shutting down admin API...")
	return s.httpServer.Shutdown(ctx)
}

// Close force-closes the server when a graceful shutdown fails.
func (s *Server) Close() error {
	return s.httpServer.Close()
}
