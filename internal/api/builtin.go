package api

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/captcha-api/internal/logger"
	"github.com/MKhiriev/captcha-api/internal/utils"
	"github.com/MKhiriev/captcha-api/models"
)

const (
	statusOK       = "ok"
	statusFailing  = "failing"
	statusDisabled = "disabled"

	healthCheckTimeout = 3 * time.Second
)

// HealthCheck is one dependency probed by the health resource. A nil Check
// reports the dependency as disabled.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse is the body of GET {prefix}/health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthResource reports the state of the service dependencies. It answers
// 200 when every enabled check passes and 503 otherwise.
type HealthResource struct {
	checks []HealthCheck
}

// NewHealthResource returns a health resource probing checks.
func NewHealthResource(checks ...HealthCheck) *HealthResource {
	return &HealthResource{checks: checks}
}

func (h *HealthResource) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: statusOK, Checks: make(map[string]string, len(h.checks))}
	for _, check := range h.checks {
		if check.Check == nil {
			resp.Checks[check.Name] = statusDisabled
			continue
		}

		if err := check.Check(ctx); err != nil {
			log.Warn().Err(err).Str("check", check.Name).Msg("health check failed")
			resp.Checks[check.Name] = statusFailing
			resp.Status = statusFailing
			continue
		}
		resp.Checks[check.Name] = statusOK
	}

	code := http.StatusOK
	if resp.Status != statusOK {
		code = http.StatusServiceUnavailable
	}

	_, _ = utils.WriteJSON(w, resp, code)
}

// VersionResponse is the body of GET {prefix}/version.
type VersionResponse struct {
	APIVersion   string `json:"api_version"`
	BuildVersion string `json:"build_version"`
	BuildDate    string `json:"build_date"`
	BuildCommit  string `json:"build_commit"`
}

// VersionResource reports the API version and the build metadata of the
// running binary.
type VersionResource struct {
	resp VersionResponse
}

// NewVersionResource returns a version resource for apiVersion and build.
func NewVersionResource(apiVersion string, build models.AppBuildInfo) *VersionResource {
	return &VersionResource{resp: VersionResponse{
		APIVersion:   apiVersion,
		BuildVersion: build.BuildVersion(),
		BuildDate:    build.BuildDate(),
		BuildCommit:  build.BuildCommit(),
	}}
}

func (v *VersionResource) Get(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, v.resp, http.StatusOK)
}
