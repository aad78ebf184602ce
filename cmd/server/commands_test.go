package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/captcha-api/internal/config"
	"github.com/MKhiriev/captcha-api/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(models.NewAppBuildInfo("test", "", ""))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Structure(t *testing.T) {
	cmd := newRootCmd(models.AppBuildInfo{})

	assert.Equal(t, "captcha-api", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-env-config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("root"))

	names := make(map[string]*cobra.Command)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = sub
	}
	for _, want := range []string{"serve", "worker", "migrate"} {
		assert.Contains(t, names, want)
	}

	var migrate []string
	for _, sub := range names["migrate"].Commands() {
		migrate = append(migrate, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "status"}, migrate)
}

func TestWorkerCmd_TasksDisabled(t *testing.T) {
	_, err := execute(t, "worker", "--no-env-config", "--root", t.TempDir())

	assert.ErrorIs(t, err, errTasksDisabled)
}

func TestMigrateCmd_UpAndStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "captcha.db")
	cfgPath := filepath.Join(t.TempDir(), "deploy.cfg")
	writeFile(t, cfgPath, "SQLALCHEMY_DATABASE_URI = 'sqlite:///"+dbPath+"'\n")
	t.Setenv(config.EnvConfigVar, cfgPath)

	root := filepath.Join("..", "..")

	out, err := execute(t, "migrate", "status", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "00001_task_results.sql")

	out, err = execute(t, "migrate", "up", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 1 migrations")

	out, err = execute(t, "migrate", "status", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "applied")
	assert.NotContains(t, out, "pending")

	out, err = execute(t, "migrate", "down", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back")
}

func TestMigrateCmd_Embedded(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "captcha.db")
	cfgPath := filepath.Join(t.TempDir(), "deploy.cfg")
	writeFile(t, cfgPath, "SQLALCHEMY_DATABASE_URI = 'sqlite:///"+dbPath+"'\n")
	t.Setenv(config.EnvConfigVar, cfgPath)

	// the root has no migrations directory
	out, err := execute(t, "migrate", "up", "--embedded", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "applied 1 migrations")
}

func TestMigrateCmd_NoMigrationsDirectory(t *testing.T) {
	_, err := execute(t, "migrate", "up", "--no-env-config", "--root", t.TempDir())

	assert.Error(t, err)
}
