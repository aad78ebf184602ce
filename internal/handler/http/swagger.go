package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// swaggerUI serves the Swagger UI assets, pointed at the OpenAPI document
// found at docURL.
func swaggerUI(docURL string) http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}
