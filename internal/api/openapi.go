package api

import (
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/MKhiriev/captcha-api/internal/utils"
)

const openAPIVersion = "3.0.3"

// OpenAPI builds the OpenAPI document describing every registered resource.
func (a *API) OpenAPI() *openapi3.T {
	resources := a.Resources()
	paths := openapi3.NewPathsWithCapacity(len(resources))

	for _, res := range resources {
		item := &openapi3.PathItem{}
		for _, method := range res.Methods {
			op := openapi3.NewOperation()
			op.Summary = res.Summary
			op.Responses = openapi3.NewResponses(
				openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
					Value: openapi3.NewResponse().WithDescription(http.StatusText(http.StatusOK)),
				}),
			)
			for _, name := range pathParameters(res.Path) {
				op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
			}
			item.SetOperation(method, op)
		}
		paths.Set(openAPIPath(res.Path), item)
	}

	return &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:   a.Title,
			Version: a.Version,
		},
		Servers: openapi3.Servers{{URL: a.Prefix}},
		Paths:   paths,
	}
}

// openAPIPath rewrites "{id:[0-9]+}" segments of a chi pattern to "{id}".
func openAPIPath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if name, ok := paramName(segment); ok {
			segments[i] = "{" + name + "}"
		}
	}
	return strings.Join(segments, "/")
}

func paramName(segment string) (string, bool) {
	if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
		return "", false
	}
	name, _, _ := strings.Cut(segment[1:len(segment)-1], ":")
	return name, true
}

// pathParameters lists the {name} segments of a chi pattern.
func pathParameters(path string) []string {
	var names []string
	for _, segment := range strings.Split(path, "/") {
		if name, ok := paramName(segment); ok {
			names = append(names, name)
		}
	}
	return names
}

type swaggerResource struct {
	api *API
}

func (s *swaggerResource) Get(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, s.api.OpenAPI(), http.StatusOK)
}
