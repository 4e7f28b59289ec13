package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/kscanner/pkg/config"
	"github.com/wonny/kscanner/pkg/logger"
)

// CSV exports of a full batch are small, but slow clients still need room
const exportWriteTimeout = 30 * time.Second

// Server hosts the dashboard, the JSON scanner API and the batch websocket
// ⭐ SSOT: HTTP 서버 설정은 이 파일에서만
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	env        string
}

// New binds the dashboard router to the configured port
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      exportWriteTimeout,
			IdleTimeout:       2 * time.Minute,
		},
		logger: log.Component("dashboard"),
		env:    cfg.Env,
	}
}

// Addr is the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves the dashboard until Shutdown; a clean shutdown returns nil
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"addr": s.httpServer.Addr,
		"env":  s.env,
	}).Info("Dashboard listening")

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dashboard listen on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown drains in-flight scans and exports before returning
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Draining dashboard connections")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	return nil
}
