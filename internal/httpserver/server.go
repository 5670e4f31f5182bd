// Package httpserver exposes the local control API that the CLI uses
// to talk to a running watcher.
package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clipkeep/clipkeep/internal/history"
)

// Server wraps the HTTP control server and its routes. It is meant to
// bind to loopback only; the API carries clipboard content and has no
// authentication.
type Server struct {
	http    *http.Server
	hist    *history.Manager
	log     *slog.Logger
	started time.Time
}

// New builds the control server for the given listen address.
func New(addr string, hist *history.Manager) *Server {
	s := &Server{
		hist:    hist,
		log:     slog.With("component", "api"),
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.GetHead)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	// The event stream stays open for the life of the client, so the
	// request timeout covers everything but /api/events.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))
		r.Get("/healthz", s.handleHealthz)
		r.Route("/api", func(r chi.Router) {
			r.Get("/history", s.handleList)
			r.Get("/history/{id}", s.handleGet)
			r.Post("/history/{id}/restore", s.handleRestore)
			r.Post("/clear", s.handleClear)
		})
	})
	r.Get("/api/events", s.handleEvents)

	// No WriteTimeout: it would cut off long-lived event streams.
	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Handler returns the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the server until it fails or Stop is called.
func (s *Server) Start() error {
	s.log.Info("control api listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("control api shutting down")
	return s.http.Shutdown(ctx)
}

// statusWriter captures status code and bytes written for access logs.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush forwards to the wrapped writer so event streaming keeps
// working behind the access log.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// accessLog writes one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(ww, r)

		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
