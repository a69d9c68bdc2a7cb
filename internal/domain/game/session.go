package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// SessionStatus is the lifecycle state of a play session
type SessionStatus string

const (
	SessionStarted   SessionStatus = "STARTED"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionGameOver  SessionStatus = "GAME_OVER"
	SessionForfeit   SessionStatus = "FORFEIT"
)

var (
	ErrSessionNotFound         = shared.ErrNotFound.WithMessage("세션을 찾을 수 없거나 접근 권한이 없습니다.")
	ErrSessionAlreadyCompleted = shared.ErrUnprocessable.WithMessage("이미 완료된 세션입니다.")
)

// Session is one play of a game by a child, started by the parent account.
type Session struct {
	ID           uuid.UUID
	ParentID     int64
	ChildID      int64
	GameID       int64
	Status       SessionStatus
	CurrentRound int
	CurrentScore int
	StartedAt    time.Time
	EndedAt      *time.Time
	Meta         map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Game is populated by repositories that join the game row.
	Game *Game
}

// NewSession starts a session at round 1
func NewSession(parentID, childID int64, g *Game, now time.Time) *Session {
	return &Session{
		ID:           uuid.New(),
		ParentID:     parentID,
		ChildID:      childID,
		GameID:       g.ID,
		Status:       SessionStarted,
		CurrentRound: 1,
		StartedAt:    now,
		Meta:         map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Game:         g,
	}
}

// ResultInput is the aggregate a client reports when a session ends
type ResultInput struct {
	Score         int
	WrongCount    int
	ReactionMsSum *int
	RoundCount    *int
	SuccessCount  *int
	Meta          map[string]any
}

// Complete marks the session completed and produces its result.
// A session can only be completed once.
func (s *Session) Complete(in ResultInput, now time.Time) (*Result, error) {
	if s.Status == SessionCompleted {
		return nil, ErrSessionAlreadyCompleted
	}
	s.Status = SessionCompleted
	s.EndedAt = &now
	s.UpdatedAt = now

	meta := in.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	return &Result{
		BaseEntity: shared.BaseEntity{
			CreatedAt: now,
			UpdatedAt: now,
		},
		SessionID:     s.ID,
		ChildID:       s.ChildID,
		GameID:        s.GameID,
		Score:         in.Score,
		WrongCount:    in.WrongCount,
		ReactionMsSum: in.ReactionMsSum,
		RoundCount:    in.RoundCount,
		SuccessCount:  in.SuccessCount,
		Meta:          meta,
	}, nil
}
