// Package server provides the HTTP API for triggering runs and reading results.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/jobscout/internal/db"
	"github.com/jonathan/jobscout/internal/pipeline"
	"github.com/jonathan/jobscout/internal/server/middleware"
	"github.com/jonathan/jobscout/internal/server/ratelimit"
	"github.com/jonathan/jobscout/internal/service"
	"github.com/jonathan/jobscout/internal/types"
)

// DefaultShutdownTimeout bounds graceful shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// Runner is the run service behind the API. *service.Service implements it.
type Runner interface {
	Execute(ctx context.Context, req service.Request) (*pipeline.Summary, error)
	Running() bool
	Latest(ctx context.Context) (*pipeline.Summary, error)
	LatestJobs(ctx context.Context) ([]types.Job, error)
	History(ctx context.Context, limit int) ([]db.Run, error)
}

// Config holds server configuration
type Config struct {
	Addr            string
	APIKey          string
	RateLimit       *ratelimit.Config
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	runner          Runner
	rateLimiter     *ratelimit.Limiter
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(runner Runner, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	s := &Server{
		runner:          runner,
		rateLimiter:     ratelimit.NewLimiter(cfg.RateLimit),
		logger:          cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	requireKey := middleware.RequireAPIKey(cfg.APIKey)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /runs", requireKey(http.HandlerFunc(s.handleCreateRun)))
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/latest", s.handleLatestRun)
	mux.HandleFunc("GET /runs/latest/jobs", s.handleLatestJobs)

	s.httpServer = &http.Server{
		Addr:        cfg.Addr,
		Handler:     middleware.RequestID(s.withRateLimit(s.withLogging(s.withCORS(mux)))),
		ReadTimeout: 30 * time.Second,
		// a POST /runs response waits for the whole run
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their token budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs one line per request
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("remote", r.RemoteAddr),
			slog.String("request_id", middleware.GetRequestID(r).String()),
			slog.Duration("elapsed", time.Since(start)))
	})
}

// clientID is the caller's IP taken from RemoteAddr.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	body := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.UTC().Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds()) + 1
		body["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.Warn("rate limit exceeded",
		slog.String("client", clientID(r)),
		slog.String("path", r.URL.Path),
		slog.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, body)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
