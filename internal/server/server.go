// Package server exposes the Fibonacci calculators over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/agbru/quickfib/internal/calculator"
	"github.com/agbru/quickfib/internal/logging"
)

const (
	// DefaultType is the backend used when a request omits "type".
	DefaultType = "u64"
	// MaxRangeLength caps the number of indices of one /range request.
	MaxRangeLength = 10_000
	// RequestIDHeader carries the request identifier in both directions.
	RequestIDHeader = "X-Request-ID"

	tracerName = "github.com/agbru/quickfib/internal/server"
)

// Config holds the server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// RequestTimeout bounds one calculation.
	RequestTimeout time.Duration
	// RateLimit is the sustained number of requests per second accepted by
	// the server, RateBurst the bucket size. A zero RateLimit disables
	// limiting.
	RateLimit float64
	RateBurst int
	Security  SecurityConfig
}

// DefaultConfig returns production defaults listening on addr.
func DefaultConfig(addr string) Config {
	return Config{
		Addr:            addr,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    5 * time.Minute,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		RequestTimeout:  time.Minute,
		RateLimit:       50,
		RateBurst:       100,
		Security:        DefaultSecurityConfig(),
	}
}

// Server serves /fib, /range, /health and /metrics.
type Server struct {
	cfg        Config
	factory    calculator.Factory
	logger     logging.Logger
	metrics    *Metrics
	limiter    *rate.Limiter
	tracer     trace.Tracer
	startTime  time.Time
	httpServer *http.Server
}

// NewServer creates a server over the backends of factory.
func NewServer(factory calculator.Factory, cfg Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	s := &Server{
		cfg:       cfg,
		factory:   factory,
		logger:    logger,
		metrics:   NewMetrics(),
		tracer:    otel.Tracer(tracerName),
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/fib", s.route(s.handleFib))
	mux.HandleFunc("/range", s.route(s.handleRange))
	mux.HandleFunc("/health", s.route(s.handleHealth))
	mux.HandleFunc("/metrics", SecurityMiddleware(s.cfg.Security, s.handleMetrics))
	return mux
}

// route wraps an API handler. The outermost layer runs first.
func (s *Server) route(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.cfg.Security,
		s.requestIDMiddleware(
			s.loggingMiddleware(
				s.metricsMiddleware(
					s.rateLimitMiddleware(h)))))
}

// Start serves until ctx is canceled, then shuts down gracefully within
// ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", logging.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
