package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryQueue_DelaysNotBefore(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewMemoryQueue(2)
	defer q.Close()

	task, err := NewTask("later", nil, 0)
	require.NoError(t, err)
	task.NotBefore = time.Now().Add(30 * time.Millisecond)
	require.NoError(t, q.Push(context.Background(), task))
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 1, q.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.True(t, got.Ready(time.Now()))
	assert.Equal(t, 0, q.Pending())
}

func TestMemoryQueue_Full(t *testing.T) {
	q := NewMemoryQueue(1)
	defer q.Close()

	first, _ := NewTask("a", nil, 0)
	second, _ := NewTask("b", nil, 0)
	require.NoError(t, q.Push(context.Background(), first))
	assert.ErrorIs(t, q.Push(context.Background(), second), ErrQueueFull)
}

func TestMemoryQueue_DelayedTaskWaitsForRoom(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewMemoryQueue(1)
	defer q.Close()

	delayed, _ := NewTask("b", nil, 0)
	delayed.NotBefore = time.Now().Add(10 * time.Millisecond)
	require.NoError(t, q.Push(context.Background(), delayed))
	ready, _ := NewTask("a", nil, 0)
	require.NoError(t, q.Push(context.Background(), ready))

	// The timer fires while the buffer is still occupied by "a".
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, q.Len())
	assert.GreaterOrEqual(t, q.Pending(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)

	got, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
	assert.Eventually(t, func() bool { return q.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestMemoryQueue_Close(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := NewMemoryQueue(1)
	delayed, _ := NewTask("later", nil, 0)
	delayed.NotBefore = time.Now().Add(time.Hour)
	require.NoError(t, q.Push(context.Background(), delayed))

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.Equal(t, 0, q.Pending())

	_, err := q.Pop(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)

	task, _ := NewTask("x", nil, 0)
	assert.ErrorIs(t, q.Push(context.Background(), task), ErrQueueClosed)
}

func TestMemoryQueue_PopHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	defer q.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTask_Retry(t *testing.T) {
	task, err := NewTask("t", map[string]int{"n": 1}, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(task.Payload))
	assert.True(t, task.CanRetry())

	task.ScheduleRetry(assert.AnError, time.Minute)
	task.ScheduleRetry(assert.AnError, time.Minute)
	assert.Equal(t, 2, task.Attempt)
	assert.False(t, task.CanRetry())
	assert.False(t, task.Ready(time.Now()))
	assert.Equal(t, assert.AnError.Error(), task.LastError)
}

func TestNewTask_RejectsUnencodablePayload(t *testing.T) {
	_, err := NewTask("bad", make(chan int), 0)
	assert.Error(t, err)
}
