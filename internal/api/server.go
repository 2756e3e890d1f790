// Package api exposes the chat service over HTTP.
//
// Endpoints:
//
//	POST /api/chat                        - run one conversational turn
//	GET  /api/conversations/{id}/messages - conversation history (system messages filtered)
//	GET  /health                          - liveness probe
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds header reads to shed slow-header clients.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is generous because a turn can take several completion
	// rounds against the backend.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 120 * time.Second
)

type Server struct {
	mux  *http.ServeMux
	chat *ChatHandler
}

func NewServer(chat *ChatHandler) *Server {
	mux := http.NewServeMux()
	s := &Server{mux: mux, chat: chat}

	chat.RegisterRoutes(mux)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return s
}

// Handler returns the HTTP handler with middleware applied. Recovery
// wraps outermost.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware, loggingMiddleware)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
