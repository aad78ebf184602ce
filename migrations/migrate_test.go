// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiles_Embedded(t *testing.T) {
	names, err := Files()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "00001_task_results.sql", names[0])
}

func TestFiles_HaveGooseSections(t *testing.T) {
	names, err := Files()
	require.NoError(t, err)

	for _, name := range names {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err, name)
		assert.True(t, strings.Contains(string(body), "-- +goose Up"), "%s has no Up section", name)
		assert.True(t, strings.Contains(string(body), "-- +goose Down"), "%s has no Down section", name)
	}
}
