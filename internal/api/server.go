package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oppscan/backend/pkg/config"
	"github.com/oppscan/backend/pkg/logger"
)

// Server serves the scanner HTTP API
type Server struct {
	addr   string
	srv    *http.Server
	logger *logger.Logger
}

// New creates the API server. The write timeout is generous because a
// cache-miss picks request can trigger a live scan.
func New(cfg *config.Config, log *logger.Logger, handler http.Handler) *Server {
	addr := ":" + cfg.Port
	return &Server{
		addr:   addr,
		logger: log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	s.logger.WithField("addr", s.addr).Info("API server listening")

	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.srv.Shutdown(ctx)
}
