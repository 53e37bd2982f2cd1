// Package httpapi is the inbound HTTP adapter: it maps the login, session,
// and logout endpoints onto the auth and session services and carries the
// session token in an HttpOnly cookie.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/vkazmirchuk/authgate/internal/logging"
	"github.com/vkazmirchuk/authgate/internal/server/auth"
	"github.com/vkazmirchuk/authgate/internal/server/config"
	"github.com/vkazmirchuk/authgate/internal/server/session"
	"github.com/vkazmirchuk/authgate/internal/server/storage"
)

type Server struct {
	addr         string
	logger       logging.Logger
	auth         *auth.Service
	sessions     *session.Service
	store        storage.Manager
	cookieName   string
	cookieSecure bool
	corsOrigin   string
}

func NewServer(cfg *config.Config, l logging.Logger, a *auth.Service, ss *session.Service, m storage.Manager) *Server {
	return &Server{
		addr:         cfg.Addr,
		logger:       l.With("module", "http_server"),
		auth:         a,
		sessions:     ss,
		store:        m,
		cookieName:   cfg.CookieName,
		cookieSecure: cfg.IsProduction(),
		corsOrigin:   cfg.CORSOrigin,
	}
}

// Handler builds the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)
	r.Get("/api/auth/session", s.handleSession)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping http server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "starting http server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
