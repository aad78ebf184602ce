package api

import "net/http"

// A resource is any value implementing one or more of the interfaces below.
// Each implemented method becomes a route for the resource path.
type (
	Getter interface {
		Get(w http.ResponseWriter, r *http.Request)
	}
	Poster interface {
		Post(w http.ResponseWriter, r *http.Request)
	}
	Putter interface {
		Put(w http.ResponseWriter, r *http.Request)
	}
	Patcher interface {
		Patch(w http.ResponseWriter, r *http.Request)
	}
	Deleter interface {
		Delete(w http.ResponseWriter, r *http.Request)
	}
)

// ResourceInfo describes a registered resource.
type ResourceInfo struct {
	// Path is relative to the API prefix, e.g. "/health".
	Path    string
	Summary string
	// Methods lists the handled HTTP methods in registration order.
	Methods []string
}

// methodHandlers returns the HTTP methods resource handles.
func methodHandlers(resource any) ([]string, map[string]http.HandlerFunc) {
	var methods []string
	handlers := make(map[string]http.HandlerFunc)

	add := func(method string, h http.HandlerFunc) {
		methods = append(methods, method)
		handlers[method] = h
	}

	if res, ok := resource.(Getter); ok {
		add(http.MethodGet, res.Get)
	}
	if res, ok := resource.(Poster); ok {
		add(http.MethodPost, res.Post)
	}
	if res, ok := resource.(Putter); ok {
		add(http.MethodPut, res.Put)
	}
	if res, ok := resource.(Patcher); ok {
		add(http.MethodPatch, res.Patch)
	}
	if res, ok := resource.(Deleter); ok {
		add(http.MethodDelete, res.Delete)
	}

	return methods, handlers
}
