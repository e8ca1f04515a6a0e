// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - The request gate runs after path cleaning, so routing and authorization
    always see the same path.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/platform/config"
	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/middleware"
	"github.com/taibuivan/legitexchange/internal/users/auth"
	"github.com/taibuivan/legitexchange/internal/web"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth serves the session endpoints under /api/auth.
	Auth *auth.Handler

	// Pages serves the rendered site and its static assets.
	Pages *web.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, policy *access.Policy, tokens middleware.SessionTokens, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(middleware.CORSPolicy{
		AllowAll:   cfg.IsDevelopment(),
		HostSuffix: cfg.AllowedOriginSuffix,
	}))
	r.Use(chimw.CleanPath)
	r.Use(middleware.RequestGate(policy, tokens, middleware.GateOptions{
		UpdateAge:    cfg.SessionUpdateAge,
		SecureCookie: cfg.SessionCookieSecure,
	}))
	r.Use(middleware.SessionUser)

	// # Infrastructure Endpoints
	// Health probes are exempt from the request gate.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application
	r.Mount("/api/auth", h.Auth.Routes())
	r.Mount("/", h.Pages.Routes())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the fully wired router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
