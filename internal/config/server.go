package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
)

// Server is the typed view of the SERVER_* keys used by the HTTP listener.
type Server struct {
	// Address is the TCP listen address in "host:port" form.
	// Key: SERVER_ADDRESS
	Address string `validate:"required,hostname_port"`

	// ReadTimeout bounds reading a whole request.
	// Key: SERVER_READ_TIMEOUT
	ReadTimeout time.Duration `validate:"gte=0"`

	// WriteTimeout bounds writing a response.
	// Key: SERVER_WRITE_TIMEOUT
	WriteTimeout time.Duration `validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown.
	// Key: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// DefaultServerAddress is used when SERVER_ADDRESS is not configured.
const DefaultServerAddress = ":5000"

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultServer returns the listener settings used for every SERVER_* key
// that is missing or zero.
func DefaultServer() Server {
	return Server{
		Address:         DefaultServerAddress,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ServerFrom builds and validates the [Server] view of cfg.
func ServerFrom(cfg *Config) (Server, error) {
	srv := Server{
		Address:         cfg.String(KeyServerAddress, ""),
		ReadTimeout:     cfg.Duration(KeyServerReadTimeout, 0),
		WriteTimeout:    cfg.Duration(KeyServerWriteTimeout, 0),
		ShutdownTimeout: cfg.Duration(KeyServerShutdownTimeout, 0),
	}

	if err := mergo.Merge(&srv, DefaultServer()); err != nil {
		return Server{}, fmt.Errorf("error applying server defaults: %w", err)
	}

	if err := validate.Struct(srv); err != nil {
		return Server{}, fmt.Errorf("%w: %w", ErrInvalidServerConfig, err)
	}

	return srv, nil
}
