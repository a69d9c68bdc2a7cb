package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds worker pool settings
type Config struct {
	Concurrency int
	JobTimeout  time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// DefaultConfig returns default worker settings: 3 retries, 60s apart.
func DefaultConfig() Config {
	return Config{
		Concurrency: 2,
		JobTimeout:  10 * time.Minute,
		MaxRetries:  3,
		RetryDelay:  60 * time.Second,
	}
}

// ObserveFunc is told how every task attempt went
type ObserveFunc func(ctx context.Context, task string, d time.Duration, err error)

// Scheduler enqueues named tasks and, once started, runs them on a pool of
// workers with retries.
type Scheduler struct {
	config  Config
	queue   Queue
	logger  *zap.Logger
	observe ObserveFunc

	defsMu sync.RWMutex
	defs   map[string]Definition

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler on top of queue
func New(config Config, queue Queue, logger *zap.Logger) *Scheduler {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	return &Scheduler{
		config: config,
		queue:  queue,
		logger: logger,
		defs:   make(map[string]Definition),
	}
}

// Register adds task definitions. A later definition replaces an earlier one with the same name.
func (s *Scheduler) Register(defs ...Definition) {
	s.defsMu.Lock()
	defer s.defsMu.Unlock()
	for _, d := range defs {
		s.defs[d.Name] = d
	}
}

// Observe installs a hook called after every attempt, such as
// AppMetrics.TaskProcessed. Call it before Start.
func (s *Scheduler) Observe(fn ObserveFunc) {
	s.observe = fn
}

func (s *Scheduler) definition(name string) (Definition, bool) {
	s.defsMu.RLock()
	defer s.defsMu.RUnlock()
	d, ok := s.defs[name]
	return d, ok
}

// Enqueue pushes a task and returns its ID. Workers need not run in this
// process; with the redis backend another process picks it up.
func (s *Scheduler) Enqueue(ctx context.Context, name string, payload any) (string, error) {
	if _, ok := s.definition(name); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	task, err := NewTask(name, payload, s.config.MaxRetries)
	if err != nil {
		return "", err
	}
	if err := s.queue.Push(ctx, task); err != nil {
		return "", err
	}
	s.logger.Debug("Task enqueued",
		zap.String("task", name),
		zap.String("task_id", task.ID),
	)
	return task.ID, nil
}

// Start launches the workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Concurrency; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Task scheduler started",
		zap.Int("workers", s.config.Concurrency),
		zap.Duration("job_timeout", s.config.JobTimeout),
		zap.Int("max_retries", s.config.MaxRetries),
	)
	return nil
}

// Stop cancels the workers and waits for in-flight tasks, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Task scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Task scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether workers are active
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		task, err := s.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return
			}
			s.logger.Error("Failed to fetch task", zap.Int("worker_id", workerID), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		s.process(ctx, task, workerID)
	}
}

func (s *Scheduler) process(ctx context.Context, task *Task, workerID int) {
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("task", task.Name),
		zap.String("task_id", task.ID),
		zap.Int("attempt", task.Attempt),
	)

	def, ok := s.definition(task.Name)
	if !ok {
		log.Error("Dropping task without handler")
		return
	}

	log.Info("Processing task")
	started := time.Now()
	err := s.run(ctx, def, task)
	if s.observe != nil {
		s.observe(ctx, task.Name, time.Since(started), err)
	}
	if err == nil {
		log.Info("Task completed")
		return
	}

	if task.CanRetry() {
		task.ScheduleRetry(err, s.config.RetryDelay)
		log.Warn("Task failed, scheduling retry",
			zap.Error(err),
			zap.Int("max_retries", task.MaxRetries),
			zap.Time("next_attempt_at", task.NotBefore),
		)
		if pushErr := s.queue.Push(context.WithoutCancel(ctx), task); pushErr != nil {
			log.Error("Failed to re-queue task", zap.Error(pushErr))
			s.exhaust(ctx, def, task, err)
		}
		return
	}

	log.Error("Task failed after final attempt", zap.Error(err))
	s.exhaust(ctx, def, task, err)
}

func (s *Scheduler) run(ctx context.Context, def Definition, task *Task) (err error) {
	jobCtx := ctx
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return def.Handle(jobCtx, task)
}

func (s *Scheduler) exhaust(ctx context.Context, def Definition, task *Task, err error) {
	if def.OnExhausted == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Exhausted hook panicked",
				zap.String("task", task.Name),
				zap.Any("panic", r),
			)
		}
	}()
	def.OnExhausted(context.WithoutCancel(ctx), task, err)
}
