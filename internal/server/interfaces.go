package server

import "context"

// Server defines the lifecycle contract of the HTTP server managed by this
// package.
type Server interface {
	// RunServer serves requests until ctx is cancelled or SIGINT/SIGTERM
	// arrives, then shuts down gracefully.
	RunServer(ctx context.Context) error

	// Shutdown stops accepting connections and waits for in-flight
	// requests until ctx expires.
	Shutdown(ctx context.Context) error

	// Ready is closed once the listener is bound, or once binding failed.
	Ready() <-chan struct{}

	// Addr returns the bound address. It is "" before Ready is closed and
	// after a failed bind.
	Addr() string
}
