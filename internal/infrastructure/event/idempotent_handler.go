package event

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/shared"
)

// DefaultIdempotencyTTL is how long a handled event ID is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStats counts what an IdempotentHandler did
type IdempotencyStats struct {
	Processed int64
	Duplicate int64
	Failed    int64
}

// IdempotentHandler skips events whose ID was already handled
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// NewIdempotentHandler wraps handler. A non-positive ttl uses DefaultIdempotencyTTL.
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotentHandler{
		handler: handler,
		store:   store,
		ttl:     ttl,
		logger:  logger,
	}
}

// EventTypes delegates to the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler once per event ID. A store failure is
// logged and the event is handled anyway. The ID stays marked when the
// handler fails, so redelivery waits for the TTL.
func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	id := evt.EventID().String()
	isNew, err := h.store.MarkProcessed(ctx, id, h.ttl)
	switch {
	case err != nil:
		h.logger.Warn("Idempotency check failed, handling event anyway",
			zap.String("event_id", id),
			zap.String("event_type", evt.EventType()),
			zap.Error(err),
		)
	case !isNew:
		h.duplicate.Add(1)
		h.logger.Debug("Duplicate event skipped",
			zap.String("event_id", id),
			zap.String("event_type", evt.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, evt); err != nil {
		h.failed.Add(1)
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed: h.processed.Load(),
		Duplicate: h.duplicate.Load(),
		Failed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
