// Package ipc exposes the backend's request/response surface to the UI
// shell over a loopback HTTP/JSON server: the startup migration report,
// per-provider credential operations, and the secure-store self-test.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/solostack/solostack/internal/migration"
	"github.com/solostack/solostack/internal/securestore"
)

// Server is the loopback HTTP server the UI shell talks to.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
}

// Compile-time check that Server implements http.Handler
var _ http.Handler = (*Server)(nil)

// New creates the IPC server over the migration report holder and the
// credential service.
func New(holder *migration.Holder, creds *securestore.Service) (*Server, error) {
	if holder == nil {
		return nil, fmt.Errorf("missing migration report holder")
	}
	if creds == nil {
		return nil, fmt.Errorf("missing credential service")
	}

	logger := slog.Default()
	h := &handlers{holder: holder, creds: creds}

	wrap := func(endpoint http.HandlerFunc) http.Handler {
		return applyMiddlewares(endpoint,
			Logging(logger),
			Recovery,
		)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /v1/migration/report", wrap(h.migrationReport))
	mux.Handle("GET /v1/sync-providers/{provider}/auth", wrap(h.getAuth))
	mux.Handle("PUT /v1/sync-providers/{provider}/auth", wrap(h.setAuth))
	mux.Handle("DELETE /v1/sync-providers/{provider}/auth", wrap(h.deleteAuth))
	mux.Handle("POST /v1/secure-store/self-test", wrap(h.selfTest))

	return &Server{mux: mux}, nil
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start starts the HTTP server in the background and returns immediately.
// Returns a channel for runtime errors and a startup error if any.
//
// Startup errors (port in use, permission denied) are returned immediately.
// Runtime errors (network failures during operation) are sent to the error
// channel.
//
// The caller is responsible for calling Shutdown() to stop the server.
func (s *Server) Start(ctx context.Context, address string) (<-chan error, error) {
	// Create the listener synchronously to catch port-in-use errors immediately
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s.server = &http.Server{
		Handler: s,
		// Requests are small JSON bodies, but bridged credential calls may
		// block up to the bridge timeout before a response is written.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)

	go func() {
		err := s.server.Serve(listener)
		// Only report error if not from graceful shutdown
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return errCh, nil
}

// Shutdown performs graceful shutdown of the HTTP server.
// Returns error if shutdown fails or times out.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	if err := s.server.Shutdown(ctx); err != nil {
		// Graceful shutdown failed - force close
		_ = s.server.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}
