package config

import "errors"

var (
	// ErrEnvConfigNotSet is returned when CAPTCHA_API_CONFIG is unset or empty.
	ErrEnvConfigNotSet = errors.New("environment config variable is not set")

	// ErrReadingConfigFile wraps I/O failures while reading a config file.
	ErrReadingConfigFile = errors.New("error reading config file")

	// ErrDecodingConfigFile wraps syntax errors in a config file.
	ErrDecodingConfigFile = errors.New("error decoding config file")

	// ErrInvalidServerConfig is returned by [ServerFrom] when the typed
	// server view fails validation.
	ErrInvalidServerConfig = errors.New("invalid server configuration")
)
