package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPollInterval = time.Second

// promoteDue moves delayed tasks whose time has come onto the ready list.
var promoteDue = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 100)
for _, v in ipairs(due) do
	redis.call('ZREM', KEYS[1], v)
	redis.call('LPUSH', KEYS[2], v)
end
return #due
`)

// RedisQueue keeps tasks in Redis so that the API process and worker
// processes share one queue. Ready tasks live in a list, delayed retries in
// a sorted set scored by their due time in milliseconds.
type RedisQueue struct {
	client       redis.UniversalClient
	readyKey     string
	delayedKey   string
	pollInterval time.Duration
	closed       atomic.Bool
}

// NewRedisQueue creates a queue under the given key name
func NewRedisQueue(client redis.UniversalClient, name string) *RedisQueue {
	if name == "" {
		name = "kkb:tasks"
	}
	return &RedisQueue{
		client:       client,
		readyKey:     name + ":ready",
		delayedKey:   name + ":delayed",
		pollInterval: defaultPollInterval,
	}
}

// Push implements Queue
func (q *RedisQueue) Push(ctx context.Context, task *Task) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	if time.Until(task.NotBefore) > 0 {
		err = q.client.ZAdd(ctx, q.delayedKey, redis.Z{
			Score:  float64(task.NotBefore.UnixMilli()),
			Member: raw,
		}).Err()
	} else {
		err = q.client.LPush(ctx, q.readyKey, raw).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to push task %s: %w", task.Name, err)
	}
	return nil
}

// Pop implements Queue. It polls so that delayed tasks get promoted even
// when the ready list stays empty.
func (q *RedisQueue) Pop(ctx context.Context) (*Task, error) {
	for {
		if q.closed.Load() {
			return nil, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		now := strconv.FormatInt(time.Now().UnixMilli(), 10)
		if err := promoteDue.Run(ctx, q.client, []string{q.delayedKey, q.readyKey}, now).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to promote delayed tasks: %w", err)
		}

		res, err := q.client.BRPop(ctx, q.pollInterval, q.readyKey).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to pop task: %w", err)
		}

		// BRPOP replies with [key, value]
		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		return &task, nil
	}
}

// Len returns the number of ready and delayed tasks
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	pipe := q.client.Pipeline()
	ready := pipe.LLen(ctx, q.readyKey)
	delayed := pipe.ZCard(ctx, q.delayedKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return ready.Val() + delayed.Val(), nil
}

// Close stops Pop from blocking again. The Redis client is owned by the caller.
func (q *RedisQueue) Close() error {
	q.closed.Store(true)
	return nil
}

var _ Queue = (*RedisQueue)(nil)
