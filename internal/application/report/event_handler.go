package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/report"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// SessionCompletedHandler flags a completed report as stale once the child
// finishes another session.
type SessionCompletedHandler struct {
	reportRepo report.ReportRepository
	logger     *zap.Logger
}

// NewSessionCompletedHandler creates the handler
func NewSessionCompletedHandler(reportRepo report.ReportRepository, logger *zap.Logger) *SessionCompletedHandler {
	return &SessionCompletedHandler{reportRepo: reportRepo, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *SessionCompletedHandler) EventTypes() []string {
	return []string{game.EventTypeSessionCompleted}
}

// Handle implements shared.EventHandler
func (h *SessionCompletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*game.SessionCompletedEvent)
	if !ok {
		return nil
	}
	rep, err := h.reportRepo.FindByUserAndChild(ctx, evt.ParentID, evt.ChildID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}
	if rep.Status != report.StatusCompleted {
		return nil
	}
	rep.SetStatus(report.StatusNotUpToDate)
	if err := h.reportRepo.Update(ctx, rep); err != nil {
		return err
	}
	h.logger.Debug("Report marked stale",
		zap.Int64("report_id", rep.ID),
		zap.String("session_id", evt.AggregateID()),
	)
	return nil
}

var _ shared.EventHandler = (*SessionCompletedHandler)(nil)
