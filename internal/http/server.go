package http

import (
	"context"
	"errors"
	"net/http"
	"time"
)

type Server struct {
	srv *http.Server
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{srv: &http.Server{
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Run blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Run(address string) error {
	s.srv.Addr = address
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
