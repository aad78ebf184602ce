package models

import "time"

// TaskStatus is the lifecycle state of a background task.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "PENDING"
	TaskStatusSuccess TaskStatus = "SUCCESS"
	TaskStatusFailure TaskStatus = "FAILURE"
)

// TaskResult is the persisted outcome of one task invocation.
type TaskResult struct {
	// TaskID is the identifier returned by Enqueue.
	TaskID string `json:"task_id"`

	// TaskName is the registered name of the task.
	TaskName string `json:"task_name"`

	Status TaskStatus `json:"status"`

	// Result holds the JSON encoded return value of a successful task.
	Result string `json:"result,omitempty"`

	// Error holds the error message of a failed task.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// FinishedAt is zero while the task is pending.
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Done reports whether the task reached a final state.
func (t TaskResult) Done() bool {
	return t.Status == TaskStatusSuccess || t.Status == TaskStatusFailure
}
