package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of background work as it travels through a Queue.
type Task struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Attempt    int             `json:"attempt"`
	MaxRetries int             `json:"max_retries"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	NotBefore  time.Time       `json:"not_before"`
	LastError  string          `json:"last_error,omitempty"`
}

// NewTask marshals the payload into a fresh task
func NewTask(name string, payload any, maxRetries int) (*Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload of task %s: %w", name, err)
	}
	now := time.Now()
	return &Task{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    raw,
		MaxRetries: maxRetries,
		EnqueuedAt: now,
		NotBefore:  now,
	}, nil
}

// Decode unmarshals the payload into v
func (t *Task) Decode(v any) error {
	if err := json.Unmarshal(t.Payload, v); err != nil {
		return fmt.Errorf("failed to decode payload of task %s: %w", t.Name, err)
	}
	return nil
}

// CanRetry reports whether another attempt is allowed
func (t *Task) CanRetry() bool {
	return t.Attempt < t.MaxRetries
}

// ScheduleRetry bumps the attempt counter and delays the next run
func (t *Task) ScheduleRetry(cause error, delay time.Duration) {
	t.Attempt++
	t.LastError = cause.Error()
	t.NotBefore = time.Now().Add(delay)
}

// Ready reports whether the task may run at the given time
func (t *Task) Ready(now time.Time) bool {
	return !now.Before(t.NotBefore)
}

// HandlerFunc executes a task. A returned error triggers a retry until
// MaxRetries is reached.
type HandlerFunc func(ctx context.Context, task *Task) error

// ExhaustedFunc runs once a task has failed its final attempt.
type ExhaustedFunc func(ctx context.Context, task *Task, err error)

// Definition registers a named task with the scheduler.
type Definition struct {
	Name        string
	Handle      HandlerFunc
	OnExhausted ExhaustedFunc
}
