// Package migrations ships the goose SQL migrations of the service schema.
//
// The files are read from <root>/migrations at runtime; FS carries the same
// files inside the binary for deployments without a source tree.
package migrations

import (
	"embed"
	"io/fs"
	"slices"
)

//go:embed *.sql
var FS embed.FS

// Files returns the names of the embedded migration files in order.
func Files() ([]string, error) {
	names, err := fs.Glob(FS, "*.sql")
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}
