// Package httpserver runs an http.Server with graceful shutdown and provides a
// liveness/readiness handler.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/apitour/pkg/logger"
)

var (
	// ErrStart indicates that the server failed to start.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for lifecycle events. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithListener serves on an existing listener instead of Config.Addr.
func WithListener(ln net.Listener) Option {
	return func(s *Server) { s.ln = ln }
}

// Server wraps http.Server with graceful shutdown and logging.
type Server struct {
	srv             *http.Server
	ln              net.Listener
	log             *slog.Logger
	shutdownTimeout time.Duration
	shutdownOnce    sync.Once
	shutdownErr     error
}

// New returns a Server for handler configured from cfg. Zero values fall back to defaults.
func New(cfg Config, handler http.Handler, opts ...Option) *Server {
	if handler == nil {
		handler = http.NotFoundHandler()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log:             slog.New(slog.DiscardHandler),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives or the server fails.
// It always attempts a graceful shutdown before returning.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "http server started", slog.String("addr", s.addr()), logger.Component("httpserver"))
		if s.ln != nil {
			errCh <- s.srv.Serve(s.ln)
			return
		}
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(ErrStart, err)
		}
		return nil
	case <-ctx.Done():
	}

	err := s.Shutdown(context.WithoutCancel(ctx))
	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		err = errors.Join(err, ErrStart, serveErr)
	}
	return err
}

// Shutdown stops the server gracefully within the configured timeout.
// It is safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(ctx); err != nil {
			s.shutdownErr = errors.Join(ErrShutdown, err)
			s.log.ErrorContext(ctx, "http server shutdown failed", logger.Error(err), logger.Component("httpserver"))
			return
		}
		s.log.InfoContext(ctx, "http server stopped", logger.Component("httpserver"))
	})
	return s.shutdownErr
}

func (s *Server) addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.srv.Addr
}
