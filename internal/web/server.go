// Package web serves the server-rendered phonebook form. Every route maps to
// one plain-SQL operation on the contacts table followed by a redirect back
// to the listing.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = "localhost:5000"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Config defines the inputs for the web server.
type Config struct {
	Addr string
}

// Server hosts the phonebook HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewServer builds a server that reads and writes contacts through table.
func NewServer(config Config, table types.ContactsTable) (*Server, error) {
	if table == nil {
		return nil, errors.New("contacts table is required")
	}
	addr := config.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		httpAddr: addr,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           withRequestLog(NewHandler(table)),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpAddr
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("phonebook web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
