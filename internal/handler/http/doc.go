// Package http builds the root HTTP handler of the service.
//
// The root chi router carries request tracing, access logging and metrics
// middleware, the Swagger UI, the Prometheus endpoint and the versioned API
// mounted at its prefix. [Handler.Wrap] then adds the CORS policy and the
// reverse-proxy header adapter around the whole router.
package http
