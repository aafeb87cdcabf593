// Package server exposes the room state machine over HTTP: a JSON
// action surface plus a WebSocket subscription pushing full room
// snapshots on every committed change.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/impostor-games/impostor/internal/logging"
)

const shutdownTimeout = 5 * time.Second

func New(port string) (*Server, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on :%s: %w", port, err)
	}

	return &Server{listener: listener}, nil
}

type Server struct {
	listener net.Listener
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// ServeHTTP serves until ctx is cancelled, then drains with a bounded
// graceful shutdown.
func (s *Server) ServeHTTP(ctx context.Context, srv *http.Server) error {
	logger := logging.FromContext(ctx).Named("server")

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", s.Addr())
		if err := srv.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Infof("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return <-errCh
}
