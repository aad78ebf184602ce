// Package api is the versioned REST sub-application. Resources are values
// whose Get/Post/Put/Patch/Delete methods become routes under
// /api/{version}; the API is mounted on the root router of the service.
package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/captcha-api/internal/logger"
	"github.com/MKhiriev/captcha-api/internal/utils"
)

// DefaultVersion is used when no version is given to [New].
const DefaultVersion = "v1"

// SwaggerPath is the path of the generated OpenAPI document, relative to
// the API prefix.
const SwaggerPath = "/swagger.json"

// PrefixFor returns the URL prefix of API version v ("/api/v1").
func PrefixFor(version string) string {
	if version == "" {
		version = DefaultVersion
	}
	return "/api/" + version
}

// API is one version of the REST API.
type API struct {
	Version string
	Prefix  string
	Title   string

	router *chi.Mux
	logger *logger.Logger

	mu        sync.RWMutex
	resources []ResourceInfo
}

// New creates an empty API for version. The OpenAPI document of the API is
// served at {prefix}/swagger.json.
func New(version string, log *logger.Logger) *API {
	if version == "" {
		version = DefaultVersion
	}

	a := &API{
		Version: version,
		Prefix:  PrefixFor(version),
		Title:   "Captcha API",
		router:  chi.NewRouter(),
		logger:  log,
	}

	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, "", http.StatusNotFound)
	})
	a.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, "", http.StatusMethodNotAllowed)
	})

	// cannot fail: fixed path, Getter implemented
	_ = a.AddResource(SwaggerPath, &swaggerResource{api: a}, "OpenAPI document of this API")

	return a
}

// AddResource registers resource at path (relative to the prefix, chi
// pattern syntax such as "/captcha/{id}"). Every method interface the
// resource implements becomes a route.
func (a *API) AddResource(path string, resource any, summary string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	methods, handlers := methodHandlers(resource)
	if len(methods) == 0 {
		return fmt.Errorf("%w: %T", ErrNoHandlers, resource)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, res := range a.resources {
		if res.Path == path {
			return fmt.Errorf("%w: %s", ErrDuplicateResource, path)
		}
	}

	for _, method := range methods {
		a.router.Method(method, path, handlers[method])
	}
	a.resources = append(a.resources, ResourceInfo{Path: path, Summary: summary, Methods: methods})

	a.logger.Debug().
		Str("path", a.Prefix+path).
		Strs("methods", methods).
		Msg("resource registered")

	return nil
}

// Resources returns the registered resources in registration order.
func (a *API) Resources() []ResourceInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]ResourceInfo, len(a.resources))
	copy(out, a.resources)
	return out
}

// Router returns the handler of the API. Paths it sees are relative to the
// prefix.
func (a *API) Router() http.Handler {
	return a.router
}

// Mount attaches the API to r at its prefix.
func (a *API) Mount(r chi.Router) {
	r.Mount(a.Prefix, a.router)
	a.logger.Info().Str("prefix", a.Prefix).Msg("API mounted")
}
