package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/kkambbaki/backend/internal/domain/game"
)

// GameInfo is a playable game as listed to clients
type GameInfo struct {
	ID       int64
	Code     game.Code
	Name     string
	IsActive bool
}

// StartResult describes a freshly started session
type StartResult struct {
	SessionID uuid.UUID
	GameCode  game.Code
	StartedAt time.Time
	Status    game.SessionStatus
}

// FinishInput is the aggregate a client reports when it finishes a session
type FinishInput struct {
	SessionID     uuid.UUID
	Score         int
	WrongCount    int
	ReactionMsSum *int
	RoundCount    *int
	SuccessCount  *int
	Meta          map[string]any
}

// FinishResult is the stored result of a finished session
type FinishResult struct {
	SessionID     uuid.UUID
	GameCode      game.Code
	Score         int
	WrongCount    int
	ReactionMsSum *int
	RoundCount    *int
	SuccessCount  *int
	Meta          map[string]any
}

// RankingInput is a leaderboard entry submitted at an event booth
type RankingInput struct {
	GameCode     game.Code
	GameResultID *int64
	PlayerName   string
	Organization string
	Contact      string
	Score        int
	RoundCount   *int
}

// RankingRecorded is the stored entry with its record flag
type RankingRecorded struct {
	ID                 int64
	GameCode           game.Code
	GameResultID       *int64
	PlayerName         string
	Organization       string
	Score              int
	RoundCount         *int
	IsEventHighlighted bool
	EventTriggeredAt   *time.Time
	CreatedAt          time.Time
}

func toGameInfo(g *game.Game) GameInfo {
	return GameInfo{ID: g.ID, Code: g.Code, Name: g.Name, IsActive: g.IsActive}
}

func toFinishResult(s *game.Session, r *game.Result) *FinishResult {
	out := &FinishResult{
		SessionID:     s.ID,
		Score:         r.Score,
		WrongCount:    r.WrongCount,
		ReactionMsSum: r.ReactionMsSum,
		RoundCount:    r.RoundCount,
		SuccessCount:  r.SuccessCount,
		Meta:          r.Meta,
	}
	if s.Game != nil {
		out.GameCode = s.Game.Code
	}
	return out
}
