// Package httpserver serves the signup, login and logout pages and resolves
// the session cookie for every request.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// Tokens issues and verifies session tokens.
type Tokens interface {
	TokenVerifier
	Issue(uid int64, username string) (string, error)
	TTL() time.Duration
}

// Options configures the HTTP endpoint.
type Options struct {
	Addr         string
	CookieSecure bool
	// Health backs /healthz; nil reports ok unconditionally.
	Health func(ctx context.Context) error
}

// Server serves the auth pages and JSON endpoints.
type Server struct {
	address      string
	cookieSecure bool
	health       func(ctx context.Context) error

	users   UserStore
	tokens  Tokens
	session *SessionResolver
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewServer builds a Server; call Run to start listening.
func NewServer(opts Options, l logging.Logger, users UserStore, tokens Tokens, m *metrics.Metrics) *Server {
	logger := l.With("module", "http_server")
	return &Server{
		address:      opts.Addr,
		cookieSecure: opts.CookieSecure,
		health:       opts.Health,
		users:        users,
		tokens:       tokens,
		session:      NewSessionResolver(tokens, l, m),
		logger:       logger,
		metrics:      m,
	}
}

// Handler builds the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.session.Middleware)

	r.Get("/", s.home)
	r.Get("/signup", s.signupForm)
	r.Post("/signup", s.signup)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Get("/logout", s.logout)
	r.Get("/me", s.me)
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan struct{})
	shutdownDone := make(chan struct{})

	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	err = srv.Serve(listen)
	close(stopped)
	<-shutdownDone

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
