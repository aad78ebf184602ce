package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/MKhiriev/captcha-api/internal/logger"
)

// MigrationsDirName is the directory under the application root that holds
// the SQL migration files.
const MigrationsDirName = "migrations"

// MigrationStatus describes one migration file and whether it is applied.
type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the goose migrations of a directory to a [DB].
//
// Binding a Migrator does not touch the filesystem or the database; the
// directory is read when a command runs.
type Migrator struct {
	db     *DB
	dir    string
	fsys   fs.FS
	logger *logger.Logger
}

// NewMigrator binds db to the migrations under <rootPath>/migrations.
func NewMigrator(db *DB, rootPath string, log *logger.Logger) *Migrator {
	return &Migrator{
		db:     db,
		dir:    filepath.Join(rootPath, MigrationsDirName),
		logger: log,
	}
}

// NewMigratorFS binds db to the migrations at the root of fsys, such as the
// set embedded in the binary.
func NewMigratorFS(db *DB, fsys fs.FS, log *logger.Logger) *Migrator {
	return &Migrator{
		db:     db,
		dir:    "embedded",
		fsys:   fsys,
		logger: log,
	}
}

// Dir returns the bound migrations directory.
func (m *Migrator) Dir() string {
	return m.dir
}

// Up applies every pending migration and returns how many were applied.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	provider, err := m.provider()
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		m.logger.Err(err).Str("func", "*Migrator.Up").Msg("migration error")
		return len(results), fmt.Errorf("migration error: %w", err)
	}

	for _, res := range results {
		m.logger.Info().
			Int64("version", res.Source.Version).
			Str("path", res.Source.Path).
			Dur("duration", res.Duration).
			Msg("migration applied")
	}

	return len(results), nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	provider, err := m.provider()
	if err != nil {
		return err
	}

	res, err := provider.Down(ctx)
	if err != nil {
		m.logger.Err(err).Str("func", "*Migrator.Down").Msg("migration rollback error")
		return fmt.Errorf("migration rollback error: %w", err)
	}

	m.logger.Info().Int64("version", res.Source.Version).Msg("migration rolled back")
	return nil
}

// Status lists every migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	provider, err := m.provider()
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}

	return out, nil
}

// Version returns the current schema version, 0 when nothing is applied.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	provider, err := m.provider()
	if err != nil {
		return 0, err
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("error reading schema version: %w", err)
	}

	return version, nil
}

// provider must not be closed: goose closes the *sql.DB with it.
func (m *Migrator) provider() (*goose.Provider, error) {
	fsys := m.fsys
	if fsys == nil {
		fsys = os.DirFS(m.dir)
	}

	provider, err := goose.NewProvider(m.db.gooseDialect(), m.db.DB, fsys)
	if err != nil {
		if errors.Is(err, goose.ErrNoMigrations) {
			return nil, fmt.Errorf("%w in %q", ErrNoMigrations, m.dir)
		}
		return nil, fmt.Errorf("error creating migration provider: %w", err)
	}

	return provider, nil
}
