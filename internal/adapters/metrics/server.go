package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the registry over HTTP for scraping
type Server struct {
	httpServer *http.Server
}

// NewServer creates a metrics endpoint at addr serving path
func NewServer(addr, path string) *Server {
	mux := http.NewServeMux()
	if Registry != nil {
		mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler returns the underlying handler, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
