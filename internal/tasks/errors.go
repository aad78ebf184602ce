package tasks

import "errors"

var (
	// ErrInvalidConfig is returned when the CELERY_ namespace does not
	// describe a usable task client.
	ErrInvalidConfig = errors.New("invalid task client config")

	// ErrUnknownTask is returned when enqueuing or executing a task name
	// that was never registered.
	ErrUnknownTask = errors.New("unknown task")

	// ErrTaskAlreadyRegistered is returned by Register for a duplicate name.
	ErrTaskAlreadyRegistered = errors.New("task already registered")

	// ErrTaskFailed wraps the error returned by a task run in eager mode.
	ErrTaskFailed = errors.New("task failed")

	// ErrNoMessage is returned by [Broker.Pop] when the wait timed out.
	ErrNoMessage = errors.New("no message")

	// ErrNoBroker is returned by Worker when the client runs in eager mode.
	ErrNoBroker = errors.New("task client has no broker")

	// ErrNoResultBackend is returned by Result when results are not stored.
	ErrNoResultBackend = errors.New("task results are not stored")
)
