package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

func int64Ptr(v int64) *int64 { return &v }

func TestRankingService_Board(t *testing.T) {
	games := new(MockGameRepository)
	rankings := new(MockRankingRepository)
	svc := NewRankingService(games, rankings, new(MockResultRepository), zap.NewNop())

	updated := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	bbEntries := []game.RankedEntry{{Rank: 1, RankingEntry: game.RankingEntry{PlayerName: "지우", Score: 90}}}
	allEntries := []game.RankedEntry{{Rank: 1, RankingEntry: game.RankingEntry{PlayerName: "지우", Score: 90, GameName: "뿅뿅 아기별 게임"}}}

	games.On("FindByCode", mock.Anything, game.CodeBBStar).Return(testGame(t, 1, game.CodeBBStar), nil)
	games.On("FindByCode", mock.Anything, game.CodeKidsTraffic).Return(nil, shared.ErrNotFound)
	rankings.On("Top", mock.Anything, int64Ptr(1), game.RankingBoardSize).Return(bbEntries, nil)
	rankings.On("Top", mock.Anything, (*int64)(nil), game.RankingBoardSize).Return(allEntries, nil)
	rankings.On("LatestUpdate", mock.Anything).Return(&updated, nil)

	board, err := svc.Board(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bbEntries, board.BBStar)
	assert.Empty(t, board.KidsTraffic)
	assert.NotNil(t, board.KidsTraffic)
	assert.Equal(t, allEntries, board.All)
	assert.Equal(t, &updated, board.UpdatedAt)
}

func TestRankingService_BoardError(t *testing.T) {
	games := new(MockGameRepository)
	rankings := new(MockRankingRepository)
	svc := NewRankingService(games, rankings, new(MockResultRepository), zap.NewNop())
	boom := errors.New("db down")

	games.On("FindByCode", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	rankings.On("Top", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)
	rankings.On("LatestUpdate", mock.Anything).Return(nil, nil)

	_, err := svc.Board(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRankingService_Record(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	newService := func() (*RankingService, *MockGameRepository, *MockRankingRepository) {
		games := new(MockGameRepository)
		rankings := new(MockRankingRepository)
		svc := NewRankingService(games, rankings, new(MockResultRepository), zap.NewNop())
		svc.now = func() time.Time { return now }
		return svc, games, rankings
	}

	t.Run("new top score takes the highlight", func(t *testing.T) {
		svc, games, rankings := newService()
		games.On("FindByCode", ctx, game.CodeBBStar).Return(testGame(t, 1, game.CodeBBStar), nil)
		rankings.On("Create", ctx, mock.AnythingOfType("*game.RankingEntry")).Run(func(args mock.Arguments) {
			args.Get(1).(*game.RankingEntry).ID = 10
		}).Return(nil)
		rankings.On("First", ctx, int64(1)).Return(&game.RankingEntry{BaseEntity: shared.BaseEntity{ID: 10}}, nil)
		rankings.On("ClearHighlights", ctx, int64Ptr(1), int64(10)).Return(int64(1), nil)
		rankings.On("Update", ctx, mock.AnythingOfType("*game.RankingEntry")).Return(nil)

		rec, err := svc.Record(ctx, RankingInput{GameCode: game.CodeBBStar, PlayerName: " 지우 ", Score: 90, RoundCount: intPtr(8)})
		require.NoError(t, err)
		assert.True(t, rec.IsEventHighlighted)
		require.NotNil(t, rec.EventTriggeredAt)
		assert.Equal(t, now, *rec.EventTriggeredAt)
		assert.Equal(t, "지우", rec.PlayerName)
		rankings.AssertExpectations(t)
	})

	t.Run("lower score is not highlighted", func(t *testing.T) {
		svc, games, rankings := newService()
		games.On("FindByCode", ctx, game.CodeBBStar).Return(testGame(t, 1, game.CodeBBStar), nil)
		rankings.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*game.RankingEntry).ID = 11
		}).Return(nil)
		rankings.On("First", ctx, int64(1)).Return(&game.RankingEntry{BaseEntity: shared.BaseEntity{ID: 10}}, nil)

		rec, err := svc.Record(ctx, RankingInput{GameCode: game.CodeBBStar, PlayerName: "서준", Score: 20})
		require.NoError(t, err)
		assert.False(t, rec.IsEventHighlighted)
		rankings.AssertNotCalled(t, "ClearHighlights", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("zero score never competes", func(t *testing.T) {
		svc, games, rankings := newService()
		games.On("FindByCode", ctx, game.CodeBBStar).Return(testGame(t, 1, game.CodeBBStar), nil)
		rankings.On("Create", ctx, mock.Anything).Return(nil)

		rec, err := svc.Record(ctx, RankingInput{GameCode: game.CodeBBStar, PlayerName: "서준", Score: 0})
		require.NoError(t, err)
		assert.False(t, rec.IsEventHighlighted)
		rankings.AssertNotCalled(t, "First", mock.Anything, mock.Anything)
	})

	t.Run("unknown game code", func(t *testing.T) {
		svc, games, _ := newService()
		games.On("FindByCode", ctx, game.Code("TETRIS")).Return(nil, shared.ErrNotFound)

		_, err := svc.Record(ctx, RankingInput{GameCode: "TETRIS", PlayerName: "서준", Score: 5})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Contains(t, de.Details, "game_code")
	})

	t.Run("linked result fills game, score and rounds", func(t *testing.T) {
		svc, games, rankings := newService()
		results := new(MockResultRepository)
		svc.resultRepo = results

		results.On("FindByID", ctx, int64(77)).Return(&game.Result{
			BaseEntity: shared.BaseEntity{ID: 77},
			GameID:     2,
			Score:      140,
			RoundCount: intPtr(9),
		}, nil)
		games.On("FindByID", ctx, int64(2)).Return(testGame(t, 2, game.CodeKidsTraffic), nil)
		rankings.On("Create", ctx, mock.AnythingOfType("*game.RankingEntry")).Run(func(args mock.Arguments) {
			e := args.Get(1).(*game.RankingEntry)
			require.NotNil(t, e.GameID)
			assert.Equal(t, int64(2), *e.GameID)
			e.ID = 12
		}).Return(nil)
		rankings.On("First", ctx, int64(2)).Return(&game.RankingEntry{BaseEntity: shared.BaseEntity{ID: 12}}, nil)
		rankings.On("ClearHighlights", ctx, int64Ptr(2), int64(12)).Return(int64(0), nil)
		rankings.On("Update", ctx, mock.AnythingOfType("*game.RankingEntry")).Return(nil)

		// The submitted game and score are overridden by the result.
		rec, err := svc.Record(ctx, RankingInput{
			GameCode:     game.CodeBBStar,
			GameResultID: int64Ptr(77),
			PlayerName:   "하린",
			Score:        3,
		})
		require.NoError(t, err)
		assert.Equal(t, game.CodeKidsTraffic, rec.GameCode)
		assert.Equal(t, int64Ptr(77), rec.GameResultID)
		assert.Equal(t, 140, rec.Score)
		assert.Equal(t, intPtr(9), rec.RoundCount)
		assert.True(t, rec.IsEventHighlighted)
		games.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	})

	t.Run("unknown game result", func(t *testing.T) {
		svc, _, rankings := newService()
		results := new(MockResultRepository)
		svc.resultRepo = results
		results.On("FindByID", ctx, int64(404)).Return(nil, shared.ErrNotFound)

		_, err := svc.Record(ctx, RankingInput{GameResultID: int64Ptr(404), PlayerName: "하린"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Contains(t, de.Details, "game_result_id")
		rankings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("blank player name", func(t *testing.T) {
		svc, _, rankings := newService()
		_, err := svc.Record(ctx, RankingInput{PlayerName: "  ", Score: 5})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		rankings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestRankingService_AdminOperations(t *testing.T) {
	ctx := context.Background()
	games := new(MockGameRepository)
	rankings := new(MockRankingRepository)
	svc := NewRankingService(games, rankings, new(MockResultRepository), zap.NewNop())

	games.On("FindByCode", ctx, game.CodeKidsTraffic).Return(testGame(t, 2, game.CodeKidsTraffic), nil)
	rankings.On("ClearHighlights", ctx, int64Ptr(2), int64(0)).Return(int64(1), nil)
	rankings.On("ClearHighlights", ctx, (*int64)(nil), int64(0)).Return(int64(3), nil)
	rankings.On("DeleteByGame", ctx, (*int64)(nil)).Return(int64(12), nil)

	n, err := svc.ClearHighlights(ctx, game.CodeKidsTraffic)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.ClearHighlights(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = svc.Reset(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}
