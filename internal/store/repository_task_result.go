package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/MKhiriev/captcha-api/internal/logger"
	"github.com/MKhiriev/captcha-api/models"
)

const taskResultsTable = "task_results"

var taskResultColumns = []string{
	"task_id", "task_name", "status", "result", "error", "created_at", "finished_at",
}

// taskResultRepository is the SQL implementation of [TaskResultRepository].
// Queries are built with squirrel so the same code serves postgres ($n
// placeholders) and sqlite (? placeholders).
type taskResultRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewTaskResultRepository constructs a [TaskResultRepository] backed by db.
func NewTaskResultRepository(db *DB, logger *logger.Logger) TaskResultRepository {
	logger.Debug().Msg("creating task result repository")
	return &taskResultRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts result.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrTaskResultExists].
//   - Any other driver-level error → wrapped [ErrExecutingQuery].
func (r *taskResultRepository) Create(ctx context.Context, result models.TaskResult) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.statementBuilder().
		Insert(taskResultsTable).
		Columns(taskResultColumns...).
		Values(
			result.TaskID,
			result.TaskName,
			string(result.Status),
			nullString(result.Result),
			nullString(result.Error),
			result.CreatedAt.UTC(),
			nullTime(result.FinishedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*taskResultRepository.Create").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error inserting task result")

		if postgresCode(err) == pgerrcode.UniqueViolation {
			return ErrTaskResultExists
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Finish updates the status, result, error and finish time of an existing
// task result. A missing row yields [ErrTaskResultNotFound].
func (r *taskResultRepository) Finish(ctx context.Context, result models.TaskResult) error {
	log := logger.FromContext(ctx)

	finishedAt := result.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	query, args, err := r.db.statementBuilder().
		Update(taskResultsTable).
		Set("status", string(result.Status)).
		Set("result", nullString(result.Result)).
		Set("error", nullString(result.Error)).
		Set("finished_at", finishedAt.UTC()).
		Where(sq.Eq{"task_id": result.TaskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*taskResultRepository.Finish").
			Bool("retryable", r.db.Retryable(err)).
			Msg("error updating task result")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrTaskResultNotFound
	}

	return nil
}

// Get returns the task result stored for taskID.
func (r *taskResultRepository) Get(ctx context.Context, taskID string) (models.TaskResult, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.statementBuilder().
		Select(taskResultColumns...).
		From(taskResultsTable).
		Where(sq.Eq{"task_id": taskID}).
		ToSql()
	if err != nil {
		return models.TaskResult{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		result     models.TaskResult
		status     string
		value      sql.NullString
		taskErr    sql.NullString
		finishedAt sql.NullTime
	)

	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&result.TaskID, &result.TaskName, &status, &value, &taskErr, &result.CreatedAt, &finishedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.TaskResult{}, ErrTaskResultNotFound
	case err != nil:
		log.Err(err).Str("func", "*taskResultRepository.Get").Msg("error scanning task result")
		return models.TaskResult{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	result.Status = models.TaskStatus(status)
	result.Result = value.String
	result.Error = taskErr.String
	if finishedAt.Valid {
		result.FinishedAt = finishedAt.Time
	}

	return result, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
