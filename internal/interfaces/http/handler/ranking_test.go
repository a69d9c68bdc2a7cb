package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	gameapp "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

func rankingRouter(svc *mockRankingService) *gin.Engine {
	h := NewRankingHandler(svc)
	r := gin.New()
	r.GET("/games/api/ranking/", h.GetBoard)
	r.POST("/games/api/ranking/", h.Record)
	return r
}

func rankedEntry(rank int, name, gameName string, score int) game.RankedEntry {
	e := game.RankedEntry{Rank: rank}
	e.PlayerName = name
	e.Score = score
	e.GameName = gameName
	return e
}

func withRounds(e game.RankedEntry, rounds int) game.RankedEntry {
	e.RoundCount = &rounds
	return e
}

func TestRankingHandler_GetBoard(t *testing.T) {
	updated := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := new(mockRankingService)
	svc.On("Board", mock.Anything).Return(&game.Board{
		BBStar:      []game.RankedEntry{withRounds(rankedEntry(1, "하늘", "뿅뿅 아기별 게임", 90), 8)},
		KidsTraffic: []game.RankedEntry{},
		All: []game.RankedEntry{
			rankedEntry(1, "하늘", "뿅뿅 아기별 게임", 90),
			rankedEntry(2, "바다", "", 50),
		},
		UpdatedAt: &updated,
	}, nil)

	rec := doJSON(t, rankingRouter(svc), http.MethodGet, "/games/api/ranking/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[RankingBoardResponse](t, rec)

	require.Len(t, got.BBStar, 1)
	assert.Empty(t, got.BBStar[0].GameName)
	assert.NotNil(t, got.KidsTraffic)
	require.Len(t, got.All, 2)
	assert.Equal(t, "뿅뿅 아기별 게임", got.All[0].GameName)
	assert.Equal(t, "-", got.All[1].GameName)
	assert.Equal(t, 2, got.All[1].Rank)
	assert.Equal(t, 8, got.BBStar[0].RoundCount)
	assert.Equal(t, 0, got.All[1].RoundCount)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, updated.Equal(*got.UpdatedAt))
}

func TestRankingHandler_Record(t *testing.T) {
	t.Run("new record", func(t *testing.T) {
		now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
		svc := new(mockRankingService)
		svc.On("Record", mock.Anything, gameapp.RankingInput{
			GameCode:     game.CodeKidsTraffic,
			PlayerName:   "하늘",
			Organization: "해오름 유치원",
			Score:        95,
			RoundCount:   intPtr(10),
		}).Return(&gameapp.RankingRecorded{
			ID:                 11,
			GameCode:           game.CodeKidsTraffic,
			PlayerName:         "하늘",
			Organization:       "해오름 유치원",
			Score:              95,
			RoundCount:         intPtr(10),
			IsEventHighlighted: true,
			EventTriggeredAt:   &now,
			CreatedAt:          now,
		}, nil)

		rec := doJSON(t, rankingRouter(svc), http.MethodPost, "/games/api/ranking/", map[string]any{
			"game_code":    "KIDS_TRAFFIC",
			"player_name":  "하늘",
			"organization": "해오름 유치원",
			"score":        95,
			"round_count":  10,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		got := decodeData[RankingRecordedResponse](t, rec)
		assert.True(t, got.IsEventHighlighted)
		assert.Equal(t, int64(11), got.ID)
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(mockRankingService)
		rec := doJSON(t, rankingRouter(svc), http.MethodPost, "/games/api/ranking/", map[string]any{
			"game_code": "TETRIS",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		details := decode(t, rec).Error.Details
		assert.Contains(t, details, "game_code")
		assert.Contains(t, details, "player_name")
	})

	t.Run("score or game result required", func(t *testing.T) {
		svc := new(mockRankingService)
		rec := doJSON(t, rankingRouter(svc), http.MethodPost, "/games/api/ranking/", map[string]any{
			"player_name": "하늘",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec).Error.Details, "score")
		svc.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})

	t.Run("linked game result", func(t *testing.T) {
		resultID := int64(77)
		svc := new(mockRankingService)
		svc.On("Record", mock.Anything, gameapp.RankingInput{
			GameResultID: &resultID,
			PlayerName:   "하린",
		}).Return(&gameapp.RankingRecorded{
			ID:           12,
			GameCode:     game.CodeBBStar,
			GameResultID: &resultID,
			PlayerName:   "하린",
			Score:        140,
		}, nil)

		rec := doJSON(t, rankingRouter(svc), http.MethodPost, "/games/api/ranking/", map[string]any{
			"player_name":    "하린",
			"game_result_id": 77,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		got := decodeData[RankingRecordedResponse](t, rec)
		require.NotNil(t, got.GameResultID)
		assert.Equal(t, int64(77), *got.GameResultID)
		assert.Equal(t, 140, got.Score)
	})

	t.Run("domain validation", func(t *testing.T) {
		svc := new(mockRankingService)
		svc.On("Record", mock.Anything, mock.Anything).Return(nil, shared.ErrInvalidInput.WithDetails(map[string][]string{
			"player_name": {"This field may not be blank."},
		}))
		rec := doJSON(t, rankingRouter(svc), http.MethodPost, "/games/api/ranking/", map[string]any{
			"player_name": "   ",
			"score":       1,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"This field may not be blank."}, decode(t, rec).Error.Details["player_name"])
	})
}
