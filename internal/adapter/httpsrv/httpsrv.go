package httpsrv

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

type Server struct {
	srv    *http.Server
	router *http.ServeMux
}

type ServerOptions struct {
	MetricsHandler http.HandlerFunc
	MetricsPath    string
	Stopper        Stopper
	RunState       func() string
	// Current reports the address being probed right now.
	Current func() string
}

func NewServer(addr string, opts ServerOptions) *Server {
	router := http.NewServeMux()

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	router.Handle("GET /health", healthHandler(opts.RunState, opts.Current))

	if opts.MetricsHandler != nil {
		router.Handle("GET "+opts.MetricsPath, opts.MetricsHandler)
	}

	if opts.Stopper != nil {
		router.Handle("POST /stop", stopHandler(opts.Stopper))
	}

	return &Server{
		srv:    srv,
		router: router,
	}
}

func (s *Server) ListenAddr() string {
	return s.srv.Addr
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	err := s.srv.ListenAndServe()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// Serve is Start on an already bound listener.
func (s *Server) Serve(l net.Listener) error {
	err := s.srv.Serve(l)

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
