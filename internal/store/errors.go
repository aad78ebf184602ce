package store

import "errors"

// Sentinel errors returned by this package. Callers should use [errors.Is]
// to match against these values.
var (
	// ErrUnsupportedDatabase is returned by [Open] when the DSN scheme does
	// not map to a registered driver.
	ErrUnsupportedDatabase = errors.New("unsupported database")

	// ErrNoMigrations is returned by the [Migrator] when the bound
	// migrations directory is missing or holds no migration files.
	ErrNoMigrations = errors.New("no migrations found")

	// ErrTaskResultExists is returned when a task result with the same
	// task ID is already stored.
	ErrTaskResultExists = errors.New("task result already exists")

	// ErrTaskResultNotFound is returned when no task result matches the
	// requested task ID.
	ErrTaskResultNotFound = errors.New("task result was not found")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
