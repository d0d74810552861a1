// Package httpapi exposes the funnel over HTTP. Routing follows chi
// conventions; all bodies are JSON.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"funnel-engine/internal/common/config"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/service"
)

// Server hosts the funnel HTTP API.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer wires the router and returns an unstarted server.
func NewServer(cfg config.ServerConfig, svc *service.FunnelService, log logger.Logger) *Server {
	h := &handler{svc: svc, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Get("/", h.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Patch("/", h.stepSession)
			r.Post("/", h.endSession)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      r,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		},
		log: log,
	}
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.log.Info("HTTP server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
