// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// Well-known configuration keys.
const (
	KeyAPIVersion                   = "API_VERSION"
	KeyUseCelery                    = "USE_CELERY"
	KeyCeleryPrefix                 = "CELERY_"
	KeyLogLevel                     = "LOG_LEVEL"
	KeyCORSOrigins                  = "CORS_ORIGINS"
	KeyDatabaseURI                  = "SQLALCHEMY_DATABASE_URI"
	KeyDatabasePoolSize             = "SQLALCHEMY_POOL_SIZE"
	KeySQLAlchemyTrackModifications = "SQLALCHEMY_TRACK_MODIFICATIONS"
	KeyServerAddress                = "SERVER_ADDRESS"
	KeyServerReadTimeout            = "SERVER_READ_TIMEOUT"
	KeyServerWriteTimeout           = "SERVER_WRITE_TIMEOUT"
	KeyServerShutdownTimeout        = "SERVER_SHUTDOWN_TIMEOUT"
)

// DefaultAPIVersion is used when API_VERSION is not configured.
const DefaultAPIVersion = "v1"

// Config is the mutable key/value configuration mapping of one application
// instance. Keys are case-sensitive and conventionally upper-case.
//
// Values keep the type they were decoded with (string, bool, int, float64,
// []any, map[string]any, ...); the typed accessors convert on read and fall
// back to the supplied default when a key is missing or not convertible.
type Config struct {
	mu     sync.RWMutex
	values map[string]any
}

// New returns a Config holding a shallow copy of values.
func New(values map[string]any) *Config {
	c := &Config{values: make(map[string]any, len(values))}
	maps.Copy(c.values, values)
	return c
}

// Get returns the raw value stored under key.
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Config) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores value under key, replacing any previous value.
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
}

// Update merges values into the mapping; values wins on conflicts.
func (c *Config) Update(values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	maps.Copy(c.values, values)
}

// Keys returns all keys in sorted order.
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.values))
}

// Map returns a shallow copy of the whole mapping.
func (c *Config) Map() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return maps.Clone(c.values)
}

// String returns the value of key as a string, or def.
func (c *Config) String(key, def string) string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}

	return s
}

// Bool returns the value of key as a bool, or def. Strings such as "true",
// "1", "False" and "0" are accepted.
func (c *Config) Bool(key string, def bool) bool {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}

	return b
}

// Int returns the value of key as an int, or def.
func (c *Config) Int(key string, def int) int {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}

	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}

	return i
}

// Duration returns the value of key as a time.Duration, or def.
//
// Strings are parsed with time.ParseDuration ("30s", "1m"). Bare numbers
// are taken as seconds, matching how timeouts are written in the Python
// style configuration files.
func (c *Config) Duration(key string, def time.Duration) time.Duration {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}

	return toDuration(v, def)
}

// StringSlice returns the value of key as a []string, or def. A plain
// string is split on commas.
func (c *Config) StringSlice(key string, def []string) []string {
	v, ok := c.Get(key)
	if !ok || v == nil {
		return def
	}

	if s, isString := v.(string); isString {
		return splitList(s)
	}

	out, err := cast.ToStringSliceE(v)
	if err != nil {
		return def
	}

	return out
}

// Namespace returns every entry whose key starts with prefix. The prefix is
// trimmed and the remaining key lower-cased, so with prefix "CELERY_" the key
// "CELERY_BROKER_URL" becomes "broker_url".
func (c *Config) Namespace(prefix string) map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ns := make(map[string]any)
	for k, v := range c.values {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		ns[strings.ToLower(strings.TrimPrefix(k, prefix))] = v
	}

	return ns
}

// APIVersion returns API_VERSION or [DefaultAPIVersion].
func (c *Config) APIVersion() string {
	if v := c.String(KeyAPIVersion, ""); v != "" {
		return v
	}
	return DefaultAPIVersion
}

func toDuration(v any, def time.Duration) time.Duration {
	switch value := v.(type) {
	case time.Duration:
		return value
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return def
		}
		return d
	default:
		secs, err := cast.ToFloat64E(value)
		if err != nil {
			return def
		}
		return time.Duration(secs * float64(time.Second))
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
