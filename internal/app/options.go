package app

import (
	"github.com/MKhiriev/captcha-api/internal/logger"
	"github.com/MKhiriev/captcha-api/internal/tasks"
	"github.com/MKhiriev/captcha-api/models"
)

type options struct {
	override    map[string]any
	envConfig   bool
	rootPath    string
	logger      *logger.Logger
	buildInfo   models.AppBuildInfo
	taskOptions []tasks.ClientOption
}

func defaultOptions() options {
	return options{envConfig: true}
}

// Option customizes [New].
type Option func(*options)

// WithConfigOverride merges values over every other configuration source.
func WithConfigOverride(values map[string]any) Option {
	return func(o *options) {
		o.override = values
	}
}

// WithEnvConfig toggles loading the file named by CAPTCHA_API_CONFIG.
// It is enabled by default.
func WithEnvConfig(enabled bool) Option {
	return func(o *options) {
		o.envConfig = enabled
	}
}

// WithRootPath sets the application root; migrations are looked up in
// <root>/migrations. Defaults to the working directory.
func WithRootPath(path string) Option {
	return func(o *options) {
		o.rootPath = path
	}
}

// WithLogger replaces the default stdout logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithBuildInfo sets the build metadata reported by the version resource.
func WithBuildInfo(info models.AppBuildInfo) Option {
	return func(o *options) {
		o.buildInfo = info
	}
}

// WithTaskOptions passes opts to the background task client when
// USE_CELERY is enabled.
func WithTaskOptions(opts ...tasks.ClientOption) Option {
	return func(o *options) {
		o.taskOptions = append(o.taskOptions, opts...)
	}
}
