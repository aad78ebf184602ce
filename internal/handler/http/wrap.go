package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/gorilla/handlers"
)

const corsMaxAge = 300

// Headers the proxy adapter never trusts: only the nearest proxy's client
// address and scheme are applied, the host is left as received.
var untrustedProxyHeaders = []string{
	"Forwarded",
	"X-Forwarded-Host",
	"X-Forwarded-Scheme",
	"X-Real-IP",
}

// Wrap applies the CORS policy and then the reverse-proxy header adapter
// around next. The proxy adapter is outermost so that CORS and everything
// below it see the client address and scheme reported by the proxy.
func (h *Handler) Wrap(next http.Handler) http.Handler {
	return withProxyHeaders(h.withCORS(next))
}

func (h *Handler) withCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: h.corsOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{traceIDHeader},
		MaxAge:         corsMaxAge,
	})(next)
}

// withProxyHeaders trusts one proxy hop. handlers.ProxyHeaders reads a view
// of the headers reduced to the last X-Forwarded-For and X-Forwarded-Proto
// entries; next sees the headers as sent.
func withProxyHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received := r.Header
		r.Header = nearestHopHeaders(received)

		handlers.ProxyHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header = received
			next.ServeHTTP(w, r)
		})).ServeHTTP(w, r)
	})
}

func nearestHopHeaders(received http.Header) http.Header {
	header := received.Clone()
	if header == nil {
		header = make(http.Header)
	}

	for _, key := range untrustedProxyHeaders {
		header.Del(key)
	}

	for _, key := range []string{"X-Forwarded-For", "X-Forwarded-Proto"} {
		if hop := lastHop(header.Values(key)); hop != "" {
			header.Set(key, hop)
		} else {
			header.Del(key)
		}
	}

	return header
}

// lastHop returns the right-most entry of a comma separated header that
// may span several lines.
func lastHop(values []string) string {
	if len(values) == 0 {
		return ""
	}

	entries := strings.Split(values[len(values)-1], ",")
	return strings.TrimSpace(entries[len(entries)-1])
}
