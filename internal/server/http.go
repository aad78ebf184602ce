package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/MKhiriev/captcha-api/internal/config"
	"github.com/MKhiriev/captcha-api/internal/logger"
)

type httpServer struct {
	server *http.Server

	mu        sync.RWMutex
	addr      string
	ready     chan struct{}
	readyOnce sync.Once

	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		ready:  make(chan struct{}),
		logger: logger,
	}
}

// RunServer blocks until the server is shut down. A clean shutdown returns
// nil.
func (h *httpServer) RunServer() error {
	ln, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		h.markReady()
		h.logger.Err(err).Str("func", "*httpServer.RunServer").Str("address", h.server.Addr).Msg("HTTP server listen failed")
		return fmt.Errorf("%w on %s: %w", ErrListen, h.server.Addr, err)
	}

	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()
	h.markReady()

	h.logger.Info().Str("address", h.Addr()).Msg("HTTP server listening")

	if err = h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server Serve: %w", err)
	}
	return nil
}

func (h *httpServer) markReady() {
	h.readyOnce.Do(func() { close(h.ready) })
}

func (h *httpServer) Shutdown(ctx context.Context) error {
	h.logger.Info().Msg("HTTP server Shutdown")
	if err := h.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	return nil
}

func (h *httpServer) Addr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.addr
}
