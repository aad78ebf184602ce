package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_PyStyle(t *testing.T) {
	body := `# deployment settings
import os

API_VERSION = "v2"
USE_CELERY = True
CELERY_TASK_ALWAYS_EAGER = False
CELERY_RESULT_BACKEND = None
SQLALCHEMY_POOL_SIZE = 10
RATIO = 0.5
CORS_ORIGINS = ['https://a.example', 'https://b.example']
CELERY_BROKER_TRANSPORT_OPTIONS = {'visibility_timeout': 3600}
lower_case_is_ignored = 1
`
	values, err := LoadFile(writeConfigFile(t, "captcha.cfg", body))
	require.NoError(t, err)

	assert.Equal(t, "v2", values["API_VERSION"])
	assert.Equal(t, true, values["USE_CELERY"])
	assert.Equal(t, false, values["CELERY_TASK_ALWAYS_EAGER"])
	assert.Contains(t, values, "CELERY_RESULT_BACKEND")
	assert.Nil(t, values["CELERY_RESULT_BACKEND"])
	assert.Equal(t, 10, values["SQLALCHEMY_POOL_SIZE"])
	assert.Equal(t, 0.5, values["RATIO"])
	assert.Equal(t, []any{"https://a.example", "https://b.example"}, values["CORS_ORIGINS"])
	assert.Equal(t, map[string]any{"visibility_timeout": 3600}, values["CELERY_BROKER_TRANSPORT_OPTIONS"])
	assert.NotContains(t, values, "lower_case_is_ignored")
}

func TestLoadFile_PyStyle_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing equals", "API_VERSION 'v1'\n"},
		{"missing value", "API_VERSION =\n"},
		{"broken literal", "CORS_ORIGINS = ['a', \n"},
		{"undefined name", "SECRET_KEY = unknown\n"},
		{"unsupported value", "HANDLER = len\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfigFile(t, "bad.cfg", tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecodingConfigFile)
		})
	}
}

func TestLoadFile_PyStyle_StringsKeepKeywords(t *testing.T) {
	body := `GREETING = "None of the above"
SECRET_KEY = 'True-north'
MOTTO = """False
starts"""
`
	values, err := LoadFile(writeConfigFile(t, "captcha.cfg", body))
	require.NoError(t, err)

	assert.Equal(t, "None of the above", values["GREETING"])
	assert.Equal(t, "True-north", values["SECRET_KEY"])
	assert.Equal(t, "False\nstarts", values["MOTTO"])
}

func TestLoadFile_PyStyle_Expressions(t *testing.T) {
	t.Setenv("CAPTCHA_TEST_BROKER", "redis://broker:6379/1")

	body := `import os

BASE = "redis://localhost"
CELERY_BROKER_URL = os.getenv("CAPTCHA_TEST_BROKER", BASE)
CELERY_RESULT_BACKEND = os.environ.get("CAPTCHA_TEST_UNSET", BASE + "/2")
CAPTCHA_TTL = 2 * 60
CAPTCHA_SIZES = (120, 40)
`
	values, err := LoadFile(writeConfigFile(t, "captcha.cfg", body))
	require.NoError(t, err)

	assert.Equal(t, "redis://broker:6379/1", values["CELERY_BROKER_URL"])
	assert.Equal(t, "redis://localhost/2", values["CELERY_RESULT_BACKEND"])
	assert.Equal(t, 120, values["CAPTCHA_TTL"])
	assert.Equal(t, []any{120, 40}, values["CAPTCHA_SIZES"])
}

func TestLoadFile_YAML(t *testing.T) {
	body := "API_VERSION: v3\nUSE_CELERY: true\nCELERY_WORKER_CONCURRENCY: 8\n"

	values, err := LoadFile(writeConfigFile(t, "captcha.yaml", body))
	require.NoError(t, err)

	assert.Equal(t, "v3", values["API_VERSION"])
	assert.Equal(t, true, values["USE_CELERY"])
	assert.Equal(t, 8, values["CELERY_WORKER_CONCURRENCY"])
}

func TestLoadFile_EmptyYAML(t *testing.T) {
	values, err := LoadFile(writeConfigFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

func TestLoadFile_JSON(t *testing.T) {
	body := `{"API_VERSION": "v4", "SQLALCHEMY_POOL_SIZE": 3}`

	values, err := LoadFile(writeConfigFile(t, "captcha.json", body))
	require.NoError(t, err)

	assert.Equal(t, "v4", values["API_VERSION"])
	assert.Equal(t, float64(3), values["SQLALCHEMY_POOL_SIZE"])
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	_, err := LoadFile(writeConfigFile(t, "bad.json", "{ this is not json }"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecodingConfigFile)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cfg"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadingConfigFile)
}

func TestDefaults_ParsesPackagedFile(t *testing.T) {
	values, err := Defaults()
	require.NoError(t, err)

	assert.Equal(t, "v1", values[KeyAPIVersion])
	assert.Equal(t, false, values[KeyUseCelery])
	assert.Equal(t, []any{"*"}, values[KeyCORSOrigins])
	assert.Equal(t, "sqlite://", values[KeyDatabaseURI])
}

func TestIsConfigKey(t *testing.T) {
	assert.True(t, isConfigKey("API_VERSION"))
	assert.True(t, isConfigKey("_PRIVATE"))
	assert.True(t, isConfigKey("KEY2"))
	assert.False(t, isConfigKey(""))
	assert.False(t, isConfigKey("2KEY"))
	assert.False(t, isConfigKey("Mixed_Case"))
	assert.False(t, isConfigKey("WITH-DASH"))
}
