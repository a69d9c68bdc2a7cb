package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
)

// RankingUseCases is what the leaderboard endpoints need
type RankingUseCases interface {
	Board(ctx context.Context) (*game.Board, error)
	Record(ctx context.Context, input gameapp.RankingInput) (*gameapp.RankingRecorded, error)
}

// RankingHandler serves the public event leaderboard
type RankingHandler struct {
	BaseHandler
	rankings RankingUseCases
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankings RankingUseCases) *RankingHandler {
	return &RankingHandler{rankings: rankings}
}

// GetBoard godoc
// @ID           getRankingBoard
// @Summary      Leaderboards
// @Description  Top 50 entries per game and overall
// @Tags         ranking
// @Produce      json
// @Success      200 {object} APIResponse[RankingBoardResponse]
// @Router       /games/api/ranking/ [get]
func (h *RankingHandler) GetBoard(c *gin.Context) {
	board, err := h.rankings.Board(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RankingBoardResponse{
		BBStar:      toRankingEntries(board.BBStar, false),
		KidsTraffic: toRankingEntries(board.KidsTraffic, false),
		All:         toRankingEntries(board.All, true),
		UpdatedAt:   board.UpdatedAt,
	})
}

// Record godoc
// @ID           recordRanking
// @Summary      Record a booth entry
// @Description  is_event_highlighted is true when the entry took the game's top score
// @Tags         ranking
// @Accept       json
// @Produce      json
// @Param        request body RankingRequest true "Entry"
// @Success      201 {object} APIResponse[RankingRecordedResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /games/api/ranking/ [post]
func (h *RankingHandler) Record(c *gin.Context) {
	var req RankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	if details := req.missingScore(); details != nil {
		h.ValidationError(c, details)
		return
	}

	rec, err := h.rankings.Record(c.Request.Context(), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, RankingRecordedResponse{
		ID:                 rec.ID,
		GameCode:           rec.GameCode,
		GameResultID:       rec.GameResultID,
		PlayerName:         rec.PlayerName,
		Organization:       rec.Organization,
		Score:              rec.Score,
		RoundCount:         rec.RoundCount,
		IsEventHighlighted: rec.IsEventHighlighted,
		EventTriggeredAt:   rec.EventTriggeredAt,
		CreatedAt:          rec.CreatedAt,
	})
}
