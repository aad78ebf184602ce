// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
	"gopkg.in/yaml.v3"
)

// importLine matches Python import statements, which have no Starlark
// equivalent. The "os" module they usually bring in is predeclared.
var importLine = regexp.MustCompile(`(?m)^[ \t]*(import|from)[ \t].*$`)

var pyFileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// LoadFile reads the configuration file at path and returns its key/value
// mapping. The format is chosen by extension; see the package doc.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrReadingConfigFile, path, err)
	}

	values, err := parseFile(filepath.Base(path), data)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrDecodingConfigFile, path, err)
	}

	return values, nil
}

func parseFile(name string, data []byte) (map[string]any, error) {
	values := make(map[string]any)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, err
		}
	default:
		return parsePyFile(name, data)
	}

	if values == nil {
		values = make(map[string]any)
	}

	return values, nil
}

// parsePyFile executes a Python style configuration file as Starlark and
// keeps its upper-case globals.
func parsePyFile(name string, data []byte) (map[string]any, error) {
	src := importLine.ReplaceAll(data, nil)

	thread := &starlark.Thread{
		Name:  "config " + name,
		Print: func(*starlark.Thread, string) {},
	}

	globals, err := starlark.ExecFileOptions(pyFileOptions, thread, name, src, starlark.StringDict{
		"os": osModule(),
	})
	if err != nil {
		return nil, err
	}

	values := make(map[string]any)
	for key, v := range globals {
		if !isConfigKey(key) {
			continue
		}

		value, err := fromStarlark(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		values[key] = value
	}

	return values, nil
}

// osModule exposes os.environ and os.getenv to configuration files.
func osModule() *starlarkstruct.Module {
	environ := starlark.NewDict(0)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		_ = environ.SetKey(starlark.String(k), starlark.String(v))
	}
	environ.Freeze()

	getenv := starlark.NewBuiltin("getenv", func(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var key string
		var def starlark.Value = starlark.None
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "key", &key, "default?", &def); err != nil {
			return nil, err
		}
		if v, ok := os.LookupEnv(key); ok {
			return starlark.String(v), nil
		}
		return def, nil
	})

	return &starlarkstruct.Module{
		Name: "os",
		Members: starlark.StringDict{
			"environ": environ,
			"getenv":  getenv,
		},
	}
}

func fromStarlark(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.String:
		return string(v), nil
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", v)
		}
		return int(i), nil
	case starlark.Float:
		return float64(v), nil
	case *starlark.Dict:
		m := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				key = item[0].String()
			}
			value, err := fromStarlark(item[1])
			if err != nil {
				return nil, err
			}
			m[key] = value
		}
		return m, nil
	case starlark.Indexable:
		list := make([]any, v.Len())
		for i := range list {
			value, err := fromStarlark(v.Index(i))
			if err != nil {
				return nil, err
			}
			list[i] = value
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type())
	}
}

func isConfigKey(key string) bool {
	if key == "" || key[0] >= '0' && key[0] <= '9' {
		return false
	}

	for _, r := range key {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}

	return true
}
