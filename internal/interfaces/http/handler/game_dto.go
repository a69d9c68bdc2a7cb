package handler

import (
	"time"

	"github.com/google/uuid"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
)

// GameResponse is a playable game
type GameResponse struct {
	ID       int64     `json:"id" example:"1"`
	Code     game.Code `json:"code" example:"BB_STAR"`
	Name     string    `json:"name" example:"뿅뿅 아기별 게임"`
	IsActive bool      `json:"is_active" example:"true"`
}

// StartBBStarRequest names the child that plays
type StartBBStarRequest struct {
	ChildID int64 `json:"child_id" binding:"required"`
}

// StartSessionResponse describes a freshly started session
type StartSessionResponse struct {
	SessionID uuid.UUID          `json:"session_id"`
	GameCode  game.Code          `json:"game_code" example:"KIDS_TRAFFIC"`
	StartedAt time.Time          `json:"started_at"`
	Status    game.SessionStatus `json:"status" example:"STARTED"`
}

// FinishSessionRequest is the aggregate a client reports at the end of a game
type FinishSessionRequest struct {
	SessionID    uuid.UUID      `json:"session_id" binding:"required"`
	Score        *int           `json:"score" binding:"required,gte=0"`
	WrongCount   int            `json:"wrong_count" binding:"gte=0"`
	RoundCount   *int           `json:"round_count" binding:"omitempty,gte=0"`
	SuccessCount *int           `json:"success_count" binding:"omitempty,gte=0"`
	Meta         map[string]any `json:"meta"`
}

// FinishKidsTrafficRequest adds the reaction time sum of the traffic game
type FinishKidsTrafficRequest struct {
	FinishSessionRequest
	ReactionMsSum *int `json:"reaction_ms_sum" binding:"omitempty,gte=0"`
}

// FinishSessionResponse is the stored result of a session
type FinishSessionResponse struct {
	SessionID    uuid.UUID      `json:"session_id"`
	GameCode     game.Code      `json:"game_code"`
	Score        int            `json:"score"`
	WrongCount   int            `json:"wrong_count"`
	RoundCount   *int           `json:"round_count"`
	SuccessCount *int           `json:"success_count"`
	Meta         map[string]any `json:"meta"`
}

// FinishKidsTrafficResponse also reports the reaction time sum
type FinishKidsTrafficResponse struct {
	FinishSessionResponse
	ReactionMsSum *int `json:"reaction_ms_sum"`
}

// RankingRequest is a booth entry. With game_result_id the game, score and
// round count come from the linked result, so score may be omitted.
type RankingRequest struct {
	GameCode     game.Code `json:"game_code" binding:"omitempty,oneof=BB_STAR KIDS_TRAFFIC"`
	GameResultID *int64    `json:"game_result_id" binding:"omitempty,gt=0"`
	PlayerName   string    `json:"player_name" binding:"required,max=50"`
	Organization string    `json:"organization" binding:"max=100"`
	Contact      string    `json:"contact" binding:"max=100"`
	Score        *int      `json:"score" binding:"omitempty,gte=0"`
	RoundCount   *int      `json:"round_count" binding:"omitempty,gte=0"`
}

// missingScore reports the details of a request with neither a score nor a linked result
func (r RankingRequest) missingScore() map[string][]string {
	if r.Score != nil || r.GameResultID != nil {
		return nil
	}
	return map[string][]string{"score": {"This field is required."}}
}

func (r RankingRequest) input() gameapp.RankingInput {
	in := gameapp.RankingInput{
		GameCode:     r.GameCode,
		GameResultID: r.GameResultID,
		PlayerName:   r.PlayerName,
		Organization: r.Organization,
		Contact:      r.Contact,
		RoundCount:   r.RoundCount,
	}
	if r.Score != nil {
		in.Score = *r.Score
	}
	return in
}

// RankingEntryResponse is one row of a leaderboard
type RankingEntryResponse struct {
	Rank         int       `json:"rank" example:"1"`
	PlayerName   string    `json:"player_name"`
	Organization string    `json:"organization"`
	Score        int       `json:"score"`
	RoundCount   int       `json:"round_count"`
	GameName     string    `json:"game_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RankingBoardResponse holds the per-game and overall leaderboards
type RankingBoardResponse struct {
	BBStar      []RankingEntryResponse `json:"bb_star"`
	KidsTraffic []RankingEntryResponse `json:"kids_traffic"`
	All         []RankingEntryResponse `json:"all"`
	UpdatedAt   *time.Time             `json:"updated_at"`
}

// RankingRecordedResponse is the stored booth entry
type RankingRecordedResponse struct {
	ID                 int64      `json:"id"`
	GameCode           game.Code  `json:"game_code,omitempty"`
	GameResultID       *int64     `json:"game_result_id"`
	PlayerName         string     `json:"player_name"`
	Organization       string     `json:"organization"`
	Score              int        `json:"score"`
	RoundCount         *int       `json:"round_count"`
	IsEventHighlighted bool       `json:"is_event_highlighted"`
	EventTriggeredAt   *time.Time `json:"event_triggered_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

func toStartSessionResponse(r *gameapp.StartResult) StartSessionResponse {
	return StartSessionResponse{SessionID: r.SessionID, GameCode: r.GameCode, StartedAt: r.StartedAt, Status: r.Status}
}

func toFinishSessionResponse(r *gameapp.FinishResult) FinishSessionResponse {
	return FinishSessionResponse{
		SessionID:    r.SessionID,
		GameCode:     r.GameCode,
		Score:        r.Score,
		WrongCount:   r.WrongCount,
		RoundCount:   r.RoundCount,
		SuccessCount: r.SuccessCount,
		Meta:         r.Meta,
	}
}

func (r FinishSessionRequest) input() gameapp.FinishInput {
	return gameapp.FinishInput{
		SessionID:    r.SessionID,
		Score:        *r.Score,
		WrongCount:   r.WrongCount,
		RoundCount:   r.RoundCount,
		SuccessCount: r.SuccessCount,
		Meta:         r.Meta,
	}
}

// toRankingEntries converts a board list. withGame fills game_name, "-" for entries without a game.
func toRankingEntries(entries []game.RankedEntry, withGame bool) []RankingEntryResponse {
	out := make([]RankingEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = RankingEntryResponse{
			Rank:         e.Rank,
			PlayerName:   e.PlayerName,
			Organization: e.Organization,
			Score:        e.Score,
			CreatedAt:    e.CreatedAt,
		}
		if e.RoundCount != nil {
			out[i].RoundCount = *e.RoundCount
		}
		if withGame {
			out[i].GameName = e.GameName
			if out[i].GameName == "" {
				out[i].GameName = "-"
			}
		}
	}
	return out
}
