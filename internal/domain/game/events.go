package game

import (
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// EventTypeSessionCompleted is published after a session result is stored
const EventTypeSessionCompleted = "game.session.completed"

// SessionCompletedEvent tells report consumers that a child has new results.
type SessionCompletedEvent struct {
	shared.BaseDomainEvent
	ParentID int64 `json:"parent_id"`
	ChildID  int64 `json:"child_id"`
	GameID   int64 `json:"game_id"`
	GameCode Code  `json:"game_code"`
}

// NewSessionCompletedEvent builds the event for a completed session
func NewSessionCompletedEvent(s *Session) *SessionCompletedEvent {
	e := &SessionCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionCompleted, "GameSession", s.ID.String()),
		ParentID:        s.ParentID,
		ChildID:         s.ChildID,
		GameID:          s.GameID,
	}
	if s.Game != nil {
		e.GameCode = s.Game.Code
	}
	return e
}
