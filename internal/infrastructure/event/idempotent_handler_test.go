package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/cache"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour)
	defer store.Close()
	inner := &testHandler{eventTypes: []string{"game.session.completed"}}
	h := NewIdempotentHandler(inner, store, 0, zap.NewNop())
	evt := newTestEvent("game.session.completed")

	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("game.session.completed")))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, IdempotencyStats{Processed: 2, Duplicate: 1}, h.Stats())
	assert.Equal(t, []string{"game.session.completed"}, h.EventTypes())
}

func TestIdempotentHandler_StoreFailureStillHandles(t *testing.T) {
	store := new(mockStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, DefaultIdempotencyTTL).Return(false, errors.New("redis down"))
	inner := &testHandler{}
	h := NewIdempotentHandler(inner, store, 0, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), newTestEvent("x")))
	assert.Equal(t, 1, inner.count())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_HandlerFailure(t *testing.T) {
	store := new(mockStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, time.Minute).Return(true, nil)
	boom := errors.New("db down")
	h := NewIdempotentHandler(&testHandler{err: boom}, store, time.Minute, zap.NewNop())

	assert.ErrorIs(t, h.Handle(context.Background(), newTestEvent("x")), boom)
	assert.Equal(t, int64(1), h.Stats().Failed)
}

func TestIdempotentHandler_ThroughBus(t *testing.T) {
	store := cache.NewMemoryStore(time.Hour)
	defer store.Close()
	bus := NewInMemoryEventBus(zap.NewNop())
	inner := &testHandler{eventTypes: []string{"a"}}
	bus.Subscribe(NewIdempotentHandler(inner, store, time.Hour, zap.NewNop()))

	evt := newTestEvent("a")
	require.NoError(t, bus.Publish(context.Background(), evt, evt))
	assert.Equal(t, 1, inner.count())
}
