package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", "42")}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicMsg   string

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	completed := &testHandler{eventTypes: []string{"game.session.completed"}}
	other := &testHandler{eventTypes: []string{"other"}}
	all := &testHandler{}
	bus.Subscribe(completed)
	bus.Subscribe(other)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("game.session.completed")))

	assert.Equal(t, 1, completed.count())
	assert.Equal(t, 0, other.count())
	assert.Equal(t, 1, all.count())
	assert.Equal(t, 2, bus.HandlerCount("game.session.completed"))
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"a"}}
	bus.Subscribe(h, "b")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("a"), newTestEvent("b")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &testHandler{eventTypes: []string{"x"}, err: errors.New("db down")}
	panicking := &testHandler{eventTypes: []string{"x"}, panicMsg: "boom"}
	healthy := &testHandler{eventTypes: []string{"x"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, panicking.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"x", "y"}}
	w := &testHandler{}
	bus.Subscribe(h)
	bus.Subscribe(w)

	bus.Unsubscribe(h)
	bus.Unsubscribe(w)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("x"), newTestEvent("y")))
	assert.Equal(t, 0, h.count())
	assert.Equal(t, 0, w.count())
	assert.Equal(t, 0, bus.HandlerCount("x"))
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.NoError(t, bus.Start(context.Background()))
	assert.NoError(t, bus.Stop(context.Background()))
}
