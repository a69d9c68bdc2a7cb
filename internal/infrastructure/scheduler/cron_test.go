package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestCronRunner_RejectsInvalidSchedule(t *testing.T) {
	r := NewCronRunner(zap.NewNop())

	_, err := r.Add("not a schedule", "bad", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, r.Entries())
}

func TestCronRunner_FiresJobs(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewCronRunner(zap.NewNop())
	fired := make(chan struct{}, 4)
	_, err := r.Add("@every 1s", "tick", func(ctx context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return errors.New("logged, not fatal")
	})
	require.NoError(t, err)
	require.Len(t, r.Entries(), 1)

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Start(context.Background()))

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("cron job did not fire")
	}

	require.NoError(t, r.Stop(context.Background()))
	require.NoError(t, r.Stop(context.Background()))
}

func TestCronRunner_StopCancelsJobContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := NewCronRunner(zap.NewNop())
	started := make(chan struct{})
	_, err := r.Add("@every 1s", "long", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)
	require.NoError(t, r.Start(context.Background()))

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("cron job did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Stop(ctx))
}
