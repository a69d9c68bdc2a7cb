package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"
)

// requeueBackoff is the wait before a delayed task that met a full buffer is offered again
const requeueBackoff = 20 * time.Millisecond

// Queue stores tasks between Enqueue and a worker picking them up.
// Push must honour Task.NotBefore: a delayed task is not returned by Pop
// before that time.
type Queue interface {
	Push(ctx context.Context, task *Task) error
	// Pop blocks until a ready task is available, ctx is done or the queue is closed.
	Pop(ctx context.Context) (*Task, error)
	Close() error
}

// MemoryQueue is a process-local queue. Tasks are lost on restart, so it
// suits tests and single-process development setups.
type MemoryQueue struct {
	tasks     chan *Task
	closed    chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// NewMemoryQueue creates a queue holding at most size ready tasks
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 100
	}
	return &MemoryQueue{
		tasks:  make(chan *Task, size),
		closed: make(chan struct{}),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Push adds a task, holding delayed tasks back on a timer
func (q *MemoryQueue) Push(_ context.Context, task *Task) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}

	delay := time.Until(task.NotBefore)
	if delay <= 0 {
		return q.offer(task)
	}

	q.schedule(task, delay)
	return nil
}

// schedule arms a timer that offers task after delay. A task that finds the
// ready buffer full stays pending and is offered again after requeueBackoff.
func (q *MemoryQueue) schedule(task *Task, delay time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	select {
	case <-q.closed:
		return
	default:
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		if err := q.offer(task); errors.Is(err, ErrQueueFull) {
			q.schedule(task, requeueBackoff)
		}
		q.mu.Lock()
		delete(q.timers, timer)
		q.mu.Unlock()
	})
	q.timers[timer] = struct{}{}
}

func (q *MemoryQueue) offer(task *Task) error {
	select {
	case <-q.closed:
		return ErrQueueClosed
	default:
	}
	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pop implements Queue
func (q *MemoryQueue) Pop(ctx context.Context) (*Task, error) {
	select {
	case task := <-q.tasks:
		return task, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.closed:
		return nil, ErrQueueClosed
	}
}

// Len returns the number of ready tasks
func (q *MemoryQueue) Len() int {
	return len(q.tasks)
}

// Pending returns the number of delayed tasks still waiting on their timer
func (q *MemoryQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

// Close stops delayed timers and wakes blocked Pop calls
func (q *MemoryQueue) Close() error {
	q.closeOnce.Do(func() {
		close(q.closed)
		q.mu.Lock()
		for t := range q.timers {
			t.Stop()
		}
		q.timers = map[*time.Timer]struct{}{}
		q.mu.Unlock()
	})
	return nil
}

var _ Queue = (*MemoryQueue)(nil)
