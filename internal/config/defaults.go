package config

import (
	_ "embed"
	"fmt"
)

// DefaultFileName is the name of the packaged default configuration file.
const DefaultFileName = "captcha.cfg.example"

//go:embed captcha.cfg.example
var defaultFile []byte

// Defaults returns the mapping of the packaged default configuration file.
func Defaults() (map[string]any, error) {
	values, err := parseFile(DefaultFileName, defaultFile)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrDecodingConfigFile, DefaultFileName, err)
	}

	return values, nil
}
