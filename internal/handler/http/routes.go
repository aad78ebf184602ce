package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/captcha-api/internal/api"
	"github.com/MKhiriev/captcha-api/internal/metrics"
)

const (
	swaggerUIPath = "/swagger-ui"
	metricsPath   = "/metrics"
)

// Init builds the root router and mounts a at its prefix.
func (h *Handler) Init(a *api.API) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(withMetrics)
	router.Use(middleware.Recoverer)

	router.Get("/", redirectTo(swaggerUIPath))
	router.Get(swaggerUIPath, redirectTo(swaggerUIPath+"/index.html"))
	router.Get(swaggerUIPath+"/*", swaggerUI(a.Prefix+api.SwaggerPath))
	router.Handle(metricsPath, metrics.Handler())

	a.Mount(router)

	return router
}

func redirectTo(location string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, location, http.StatusFound)
	}
}
