package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
)

// SessionUseCases is what the game endpoints need from the session service
type SessionUseCases interface {
	ListActive(ctx context.Context) ([]gameapp.GameInfo, error)
	StartBBStar(ctx context.Context, userID, childID int64) (*gameapp.StartResult, error)
	StartKidsTraffic(ctx context.Context, userID int64) (*gameapp.StartResult, error)
	Finish(ctx context.Context, userID int64, via game.Code, input gameapp.FinishInput) (*gameapp.FinishResult, error)
}

// GameHandler serves game listing and session lifecycle endpoints
type GameHandler struct {
	BaseHandler
	sessions SessionUseCases
}

// NewGameHandler creates a new game handler
func NewGameHandler(sessions SessionUseCases) *GameHandler {
	return &GameHandler{sessions: sessions}
}

// ListGames godoc
// @ID           listGames
// @Summary      Active games
// @Tags         games
// @Produce      json
// @Success      200 {object} APIResponse[[]GameResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /games/ [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	games, err := h.sessions.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]GameResponse, len(games))
	for i, g := range games {
		out[i] = GameResponse{ID: g.ID, Code: g.Code, Name: g.Name, IsActive: g.IsActive}
	}
	h.Success(c, out)
}

// StartBBStar godoc
// @ID           startBBStar
// @Summary      Start a 뿅뿅 아기별 session
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request body StartBBStarRequest true "Child"
// @Success      201 {object} APIResponse[StartSessionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /games/bb-star/start/ [post]
func (h *GameHandler) StartBBStar(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req StartBBStarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.sessions.StartBBStar(c.Request.Context(), userID, req.ChildID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toStartSessionResponse(result))
}

// StartKidsTraffic godoc
// @ID           startKidsTraffic
// @Summary      Start a 꼬마 교통지킴이 session
// @Description  Plays as the user's registered child
// @Tags         games
// @Produce      json
// @Success      201 {object} APIResponse[StartSessionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /games/kids-traffic/start/ [post]
func (h *GameHandler) StartKidsTraffic(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	result, err := h.sessions.StartKidsTraffic(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toStartSessionResponse(result))
}

// FinishBBStar godoc
// @ID           finishBBStar
// @Summary      Finish a 뿅뿅 아기별 session
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request body FinishSessionRequest true "Result"
// @Success      200 {object} APIResponse[FinishSessionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /games/bb-star/finish/ [post]
func (h *GameHandler) FinishBBStar(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req FinishSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.sessions.Finish(c.Request.Context(), userID, game.CodeBBStar, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toFinishSessionResponse(result))
}

// FinishKidsTraffic godoc
// @ID           finishKidsTraffic
// @Summary      Finish a 꼬마 교통지킴이 session
// @Tags         games
// @Accept       json
// @Produce      json
// @Param        request body FinishKidsTrafficRequest true "Result"
// @Success      200 {object} APIResponse[FinishKidsTrafficResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /games/kids-traffic/finish/ [post]
func (h *GameHandler) FinishKidsTraffic(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req FinishKidsTrafficRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := req.input()
	input.ReactionMsSum = req.ReactionMsSum
	result, err := h.sessions.Finish(c.Request.Context(), userID, game.CodeKidsTraffic, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, FinishKidsTrafficResponse{
		FinishSessionResponse: toFinishSessionResponse(result),
		ReactionMsSum:         result.ReactionMsSum,
	})
}
