// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app composes one ready-to-serve instance of the captcha API:
// configuration, logging, the SQL database and its migrations, the
// versioned REST API, the optional background task client and the HTTP
// handler chain in front of them.
//
// [New] never opens a network listener; serving is left to the caller.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/captcha-api/internal/api"
	"github.com/MKhiriev/captcha-api/internal/config"
	handler "github.com/MKhiriev/captcha-api/internal/handler/http"
	"github.com/MKhiriev/captcha-api/internal/logger"
	"github.com/MKhiriev/captcha-api/internal/store"
	"github.com/MKhiriev/captcha-api/internal/tasks"
)

const loggerRole = "captcha-api"

// App is one composed application instance. Instances share no state, so
// several may live in one process.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	RootPath string

	DB       *store.DB
	Migrator *store.Migrator
	API      *api.API
	// Tasks is nil unless USE_CELERY is enabled.
	Tasks *tasks.Client

	// Router is the root router, before the CORS and proxy-header layers.
	Router *chi.Mux

	handler http.Handler
}

// New builds an application instance.
//
// Configuration is the packaged defaults, then the file named by
// CAPTCHA_API_CONFIG, then the override of [WithConfigOverride]; later
// sources win. A missing or broken environment file is logged and
// construction goes on; every other failure is returned.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.NewLogger(loggerRole)
	if o.logger != nil {
		// the level below applies to this instance only
		log = o.logger.GetChildLogger()
	}

	builder := config.NewBuilder().
		WithDefaults().
		WithEnvFile(o.envConfig).
		WithOverride(o.override)

	cfg, err := builder.Build()
	if err != nil {
		return nil, err
	}

	log.SetLevel(cfg.String(config.KeyLogLevel, ""))

	if err = builder.EnvFileErr(); err != nil {
		log.Error().Err(err).Str("func", "app.New").Msg("environment configuration not loaded, continuing with defaults")
	} else if path := builder.EnvFile(); path != "" {
		log.Info().Str("path", path).Msg("environment configuration loaded")
	}

	rootPath := o.rootPath
	if rootPath == "" {
		if rootPath, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("error resolving application root: %w", err)
		}
	}

	a := &App{
		Config:   cfg,
		Logger:   log,
		RootPath: rootPath,
	}

	if err = a.initDatabase(); err != nil {
		return nil, err
	}

	if err = a.initTasks(o.taskOptions); err != nil {
		a.closeDB()
		return nil, err
	}

	if err = a.initAPI(o); err != nil {
		_ = a.Close()
		return nil, err
	}

	h := handler.NewHandler(cfg.StringSlice(config.KeyCORSOrigins, nil), log)
	a.Router = h.Init(a.API)
	a.handler = h.Wrap(a.Router)

	log.Info().
		Str("root_path", rootPath).
		Str("api_prefix", a.API.Prefix).
		Bool("tasks", a.Tasks != nil).
		Msg("application created")

	return a, nil
}

func (a *App) initDatabase() error {
	// change tracking is not supported and always reported as disabled
	a.Config.Set(config.KeySQLAlchemyTrackModifications, false)

	db, err := store.Open(store.DBConfigFrom(a.Config), a.Logger)
	if err != nil {
		return fmt.Errorf("error binding database: %w", err)
	}

	a.DB = db
	a.Migrator = store.NewMigrator(db, a.RootPath, a.Logger)

	return nil
}

func (a *App) initTasks(opts []tasks.ClientOption) error {
	if !a.Config.Bool(config.KeyUseCelery, false) {
		a.Logger.Warn().Msg("background tasks are disabled")
		return nil
	}

	cfg, err := tasks.ConfigFrom(a.Config)
	if err != nil {
		return err
	}

	client, err := tasks.NewClient(cfg, a.Config, a.DB, a.Logger, opts...)
	if err != nil {
		return fmt.Errorf("error creating task client: %w", err)
	}

	a.Tasks = client
	return nil
}

func (a *App) initAPI(o options) error {
	a.API = api.New(a.Config.APIVersion(), a.Logger)

	checks := []api.HealthCheck{
		{Name: "database", Check: a.DB.Ping},
		{Name: "tasks"},
	}
	if a.Tasks != nil {
		checks[1].Check = a.Tasks.Ping
	}

	if err := a.API.AddResource("/health", api.NewHealthResource(checks...), "Service health"); err != nil {
		return err
	}

	return a.API.AddResource("/version", api.NewVersionResource(a.API.Version, o.buildInfo), "API and build version")
}

// ServeHTTP serves r through the full handler chain.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Handler returns the full handler chain.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Migrate applies every pending migration.
func (a *App) Migrate(ctx context.Context) (int, error) {
	return a.Migrator.Up(ctx)
}

// Close releases the task client and the database.
func (a *App) Close() error {
	var err error
	if a.Tasks != nil {
		err = errors.Join(err, a.Tasks.Close())
	}
	if a.DB != nil {
		err = errors.Join(err, a.DB.Close())
	}
	return err
}

func (a *App) closeDB() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Err(err).Msg("error closing database")
	}
}
