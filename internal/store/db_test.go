// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/captcha-api/internal/config"
	"github.com/MKhiriev/captcha-api/internal/logger"
)

func TestParseDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		driver  string
		dialect Dialect
		source  string
		memory  bool
	}{
		{"empty is in-memory sqlite", "", driverSQLite, DialectSQLite, ":memory:", true},
		{"sqlalchemy in-memory", "sqlite://", driverSQLite, DialectSQLite, ":memory:", true},
		{"bare memory", ":memory:", driverSQLite, DialectSQLite, ":memory:", true},
		{"sqlalchemy relative file", "sqlite:///captcha.db", driverSQLite, DialectSQLite, "captcha.db", false},
		{"sqlalchemy absolute file", "sqlite:////var/lib/captcha.db", driverSQLite, DialectSQLite, "/var/lib/captcha.db", false},
		{"file uri", "file:captcha.db?cache=shared", driverSQLite, DialectSQLite, "file:captcha.db?cache=shared", false},
		{"bare path", "/tmp/captcha.db", driverSQLite, DialectSQLite, "/tmp/captcha.db", false},
		{"postgres", "postgres://u:p@db:5432/captcha", driverPgx, DialectPostgres, "postgres://u:p@db:5432/captcha", false},
		{"postgresql", "postgresql://u:p@db/captcha", driverPgx, DialectPostgres, "postgres://u:p@db/captcha", false},
		{"postgresql with driver", "postgresql+psycopg2://u:p@db/captcha?sslmode=disable", driverPgx, DialectPostgres, "postgres://u:p@db/captcha?sslmode=disable", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDSN(tt.dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.driver, got.driver)
			assert.Equal(t, tt.dialect, got.dialect)
			assert.Equal(t, tt.source, got.source)
			assert.Equal(t, tt.memory, got.memory)
		})
	}
}

func TestParseDSN_Unsupported(t *testing.T) {
	_, err := parseDSN("mysql://root@localhost/captcha")
	assert.ErrorIs(t, err, ErrUnsupportedDatabase)
}

func TestDBConfigFrom(t *testing.T) {
	cfg := config.New(map[string]any{
		config.KeyDatabaseURI:      "sqlite:///captcha.db",
		config.KeyDatabasePoolSize: 12,
	})

	assert.Equal(t, DBConfig{DSN: "sqlite:///captcha.db", PoolSize: 12}, DBConfigFrom(cfg))
	assert.Equal(t, DBConfig{PoolSize: defaultPoolSize}, DBConfigFrom(config.New(nil)))
}

func TestOpen_InMemorySQLite(t *testing.T) {
	db, err := Open(DBConfig{DSN: "sqlite://"}, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DialectSQLite, db.Dialect())
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	require.NoError(t, db.Ping(context.Background()))
}

func TestOpen_PostgresIsLazy(t *testing.T) {
	// nothing listens here; Open must still succeed
	db, err := Open(DBConfig{DSN: "postgresql://u:p@127.0.0.1:1/captcha?connect_timeout=1", PoolSize: 3}, logger.Nop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DialectPostgres, db.Dialect())
	assert.Equal(t, 3, db.Stats().MaxOpenConnections)
}

func TestOpen_Unsupported(t *testing.T) {
	db, err := Open(DBConfig{DSN: "oracle://db"}, logger.Nop())
	assert.Nil(t, db)
	assert.ErrorIs(t, err, ErrUnsupportedDatabase)
}

func TestDB_Retryable(t *testing.T) {
	pg := &DB{errorClassificator: NewPostgresErrorClassifier()}
	lite := &DB{}

	assert.True(t, pg.Retryable(pgError(pgerrcode.DeadlockDetected)))
	assert.True(t, pg.Retryable(pgError(pgerrcode.CannotConnectNow)))
	assert.False(t, pg.Retryable(pgError(pgerrcode.UniqueViolation)))
	assert.False(t, pg.Retryable(errors.New("plain")))
	assert.False(t, lite.Retryable(pgError(pgerrcode.DeadlockDetected)))
}

func TestPostgresCode(t *testing.T) {
	assert.Equal(t, pgerrcode.UniqueViolation, postgresCode(pgError(pgerrcode.UniqueViolation)))
	assert.Empty(t, postgresCode(errors.New("plain")))
	assert.Empty(t, postgresCode(nil))
}
