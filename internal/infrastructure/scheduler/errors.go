package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when trying to enqueue on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrQueueFull is returned when the in-memory queue buffer is full
	ErrQueueFull = errors.New("task queue is full")

	// ErrQueueClosed is returned by Pop after Close
	ErrQueueClosed = errors.New("task queue is closed")

	// ErrUnknownTask is returned when no handler is registered for a task name
	ErrUnknownTask = errors.New("unknown task")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
