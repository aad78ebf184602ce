package api

import "errors"

var (
	// ErrInvalidPath is returned by AddResource for a path that does not
	// start with "/".
	ErrInvalidPath = errors.New("resource path must start with /")

	// ErrNoHandlers is returned by AddResource for a value that implements
	// none of the method interfaces.
	ErrNoHandlers = errors.New("resource handles no HTTP method")

	// ErrDuplicateResource is returned by AddResource when the path is
	// already registered.
	ErrDuplicateResource = errors.New("resource already registered")
)
