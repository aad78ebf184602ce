package store

import (
	"context"

	"github.com/MKhiriev/captcha-api/models"
)

// TaskResultRepository persists the outcome of background tasks.
type TaskResultRepository interface {
	// Create stores a new result, normally in the PENDING state.
	Create(ctx context.Context, result models.TaskResult) error

	// Finish records the final status, result and error of a task.
	Finish(ctx context.Context, result models.TaskResult) error

	// Get returns the stored result of taskID.
	Get(ctx context.Context, taskID string) (models.TaskResult, error)
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
