package http

import (
	"github.com/MKhiriev/captcha-api/internal/logger"
)

// DefaultCORSOrigins allows every origin.
var DefaultCORSOrigins = []string{"*"}

type Handler struct {
	corsOrigins []string

	logger *logger.Logger
}

// NewHandler creates the HTTP handler. An empty corsOrigins list falls back
// to [DefaultCORSOrigins].
func NewHandler(corsOrigins []string, logger *logger.Logger) *Handler {
	if len(corsOrigins) == 0 {
		corsOrigins = DefaultCORSOrigins
	}

	logger.Info().Strs("cors_origins", corsOrigins).Msg("http handler created")
	return &Handler{
		corsOrigins: corsOrigins,
		logger:      logger,
	}
}
