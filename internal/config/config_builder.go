package config

import (
	"errors"
	"fmt"
	"maps"
)

// Builder assembles a [Config] from ordered sources. Each With* step
// appends one mapping; Build merges them so that later sources win.
//
// Failures of the default file are fatal and returned by Build. Failures of
// the environment file are recoverable: they are kept apart and reported by
// EnvFileErr so the caller can log them and carry on.
type Builder struct {
	sources    []map[string]any
	err        error
	envFileErr error
	envFile    string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		sources: make([]map[string]any, 0, 3),
	}
}

// WithDefaults appends the packaged default configuration file.
func (b *Builder) WithDefaults() *Builder {
	defaults, err := Defaults()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, defaults)
	return b
}

// WithEnvFile appends the file named by CAPTCHA_API_CONFIG when enabled.
func (b *Builder) WithEnvFile(enabled bool) *Builder {
	if !enabled {
		return b
	}

	var environment Environment
	if err := parseEnv(&environment); err != nil {
		b.envFileErr = fmt.Errorf("%w: %w", ErrEnvConfigNotSet, err)
		return b
	}

	values, err := LoadFile(environment.ConfigPath)
	if err != nil {
		b.envFileErr = err
		return b
	}

	b.envFile = environment.ConfigPath
	b.sources = append(b.sources, values)
	return b
}

// WithOverride appends a caller-supplied mapping. A nil or empty mapping
// is ignored.
func (b *Builder) WithOverride(values map[string]any) *Builder {
	if len(values) == 0 {
		return b
	}

	b.sources = append(b.sources, values)
	return b
}

// EnvFileErr returns the recoverable error of WithEnvFile, if any.
func (b *Builder) EnvFileErr() error {
	return b.envFileErr
}

// EnvFile returns the path of the environment file that was loaded, or "".
func (b *Builder) EnvFile() string {
	return b.envFile
}

// Build merges all sources in order into a new [Config]. Each top-level
// key of a later source replaces the earlier value as a whole, nested
// mappings and zero values included.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	merged := make(map[string]any)
	for _, src := range b.sources {
		maps.Copy(merged, src)
	}

	return New(merged), nil
}
