package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

func gameRouter(svc *mockSessionService) *gin.Engine {
	h := NewGameHandler(svc)
	r := gin.New()
	g := r.Group("/games", asUser(7))
	g.GET("/", h.ListGames)
	g.POST("/bb-star/start/", h.StartBBStar)
	g.POST("/bb-star/finish/", h.FinishBBStar)
	g.POST("/kids-traffic/start/", h.StartKidsTraffic)
	g.POST("/kids-traffic/finish/", h.FinishKidsTraffic)
	return r
}

func TestGameHandler_ListGames(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("ListActive", mock.Anything).Return([]gameapp.GameInfo{
		{ID: 1, Code: game.CodeBBStar, Name: "뿅뿅 아기별 게임", IsActive: true},
	}, nil)

	rec := doJSON(t, gameRouter(svc), http.MethodGet, "/games/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[[]GameResponse](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, game.CodeBBStar, got[0].Code)
}

func TestGameHandler_Start(t *testing.T) {
	started := &gameapp.StartResult{
		SessionID: uuid.New(),
		GameCode:  game.CodeBBStar,
		StartedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		Status:    game.SessionStarted,
	}

	t.Run("bb star", func(t *testing.T) {
		svc := new(mockSessionService)
		svc.On("StartBBStar", mock.Anything, int64(7), int64(3)).Return(started, nil)

		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/bb-star/start/", StartBBStarRequest{ChildID: 3})
		require.Equal(t, http.StatusCreated, rec.Code)
		got := decodeData[StartSessionResponse](t, rec)
		assert.Equal(t, started.SessionID, got.SessionID)
		assert.Equal(t, game.SessionStarted, got.Status)
	})

	t.Run("bb star requires child", func(t *testing.T) {
		svc := new(mockSessionService)
		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/bb-star/start/", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec).Error.Details, "child_id")
	})

	t.Run("inactive game", func(t *testing.T) {
		svc := new(mockSessionService)
		msg := "게임( KIDS_TRAFFIC, 꼬마 교통지킴이 )이 활성화되어 있지 않습니다."
		svc.On("StartKidsTraffic", mock.Anything, int64(7)).Return(nil, shared.ErrNotFound.WithMessage(msg))

		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/kids-traffic/start/", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, msg, decode(t, rec).Error.Message)
	})
}

func TestGameHandler_Finish(t *testing.T) {
	sessionID := uuid.New()

	t.Run("kids traffic carries reaction time", func(t *testing.T) {
		svc := new(mockSessionService)
		svc.On("Finish", mock.Anything, int64(7), game.CodeKidsTraffic, gameapp.FinishInput{
			SessionID:     sessionID,
			Score:         40,
			WrongCount:    2,
			ReactionMsSum: intPtr(12000),
			RoundCount:    intPtr(8),
			SuccessCount:  intPtr(30),
		}).Return(&gameapp.FinishResult{
			SessionID:     sessionID,
			GameCode:      game.CodeKidsTraffic,
			Score:         40,
			WrongCount:    2,
			ReactionMsSum: intPtr(12000),
			RoundCount:    intPtr(8),
			SuccessCount:  intPtr(30),
		}, nil)

		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/kids-traffic/finish/", map[string]any{
			"session_id":      sessionID,
			"score":           40,
			"wrong_count":     2,
			"reaction_ms_sum": 12000,
			"round_count":     8,
			"success_count":   30,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeData[FinishKidsTrafficResponse](t, rec)
		require.NotNil(t, got.ReactionMsSum)
		assert.Equal(t, 12000, *got.ReactionMsSum)
		assert.Equal(t, game.CodeKidsTraffic, got.GameCode)
	})

	t.Run("bb star ignores reaction time", func(t *testing.T) {
		svc := new(mockSessionService)
		svc.On("Finish", mock.Anything, int64(7), game.CodeBBStar, gameapp.FinishInput{
			SessionID: sessionID,
			Score:     0,
		}).Return(&gameapp.FinishResult{SessionID: sessionID, GameCode: game.CodeBBStar}, nil)

		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/bb-star/finish/", map[string]any{
			"session_id":      sessionID,
			"score":           0,
			"reaction_ms_sum": 500,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, string(decode(t, rec).Data), "reaction_ms_sum")
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(mockSessionService)
		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/bb-star/finish/", map[string]any{
			"session_id":  sessionID,
			"wrong_count": -1,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		details := decode(t, rec).Error.Details
		assert.Contains(t, details, "score")
		assert.Contains(t, details, "wrong_count")
		svc.AssertNotCalled(t, "Finish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completed session", func(t *testing.T) {
		svc := new(mockSessionService)
		svc.On("Finish", mock.Anything, int64(7), game.CodeBBStar, mock.Anything).
			Return(nil, shared.ErrUnprocessable.WithMessage("이미 완료된 세션입니다."))

		rec := doJSON(t, gameRouter(svc), http.MethodPost, "/games/bb-star/finish/", map[string]any{
			"session_id": sessionID,
			"score":      10,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "이미 완료된 세션입니다.", decode(t, rec).Error.Message)
	})
}
