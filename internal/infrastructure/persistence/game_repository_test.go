package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appgame "github.com/kkambbaki/backend/internal/application/game"
	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormGameRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormGameRepository(db)
	ctx := context.Background()

	bbStar := seedGame(t, db, game.CodeBBStar)
	kids := seedGame(t, db, game.CodeKidsTraffic)
	assert.NotZero(t, bbStar.ID)
	assert.Equal(t, "뿅뿅 아기별 게임", bbStar.Name)

	t.Run("upsert updates the existing code", func(t *testing.T) {
		again, err := game.NewGame(game.CodeBBStar, "아기별", 12)
		require.NoError(t, err)
		again.IsActive = false
		require.NoError(t, repo.Upsert(ctx, again))
		assert.Equal(t, bbStar.ID, again.ID)

		found, err := repo.FindByCode(ctx, game.CodeBBStar)
		require.NoError(t, err)
		assert.Equal(t, "아기별", found.Name)
		assert.Equal(t, 12, found.MaxRound)
		assert.False(t, found.IsActive)
	})

	t.Run("find active skips disabled games", func(t *testing.T) {
		games, err := repo.FindActive(ctx)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, kids.ID, games[0].ID)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, game.Code("NOPE"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSessionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSessionRepository(db)
	ctx := context.Background()

	parent := seedUser(t, db, "parent01")
	other := seedUser(t, db, "parent02")
	child := seedChild(t, db, parent.ID)
	g := seedGame(t, db, game.CodeKidsTraffic)

	session := game.NewSession(parent.ID, child.ID, g, time.Now())
	session.Meta["device"] = "tablet"
	require.NoError(t, repo.Create(ctx, session))

	t.Run("loads the session with its game", func(t *testing.T) {
		found, err := repo.FindForParentForUpdate(ctx, session.ID, parent.ID)
		require.NoError(t, err)
		assert.Equal(t, game.SessionStarted, found.Status)
		assert.Equal(t, 1, found.CurrentRound)
		assert.Equal(t, "tablet", found.Meta["device"])
		require.NotNil(t, found.Game)
		assert.Equal(t, game.CodeKidsTraffic, found.Game.Code)
	})

	t.Run("other parents cannot see the session", func(t *testing.T) {
		_, err := repo.FindForParentForUpdate(ctx, session.ID, other.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindForParentForUpdate(ctx, uuid.New(), parent.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("update stores completion", func(t *testing.T) {
		found, err := repo.FindForParentForUpdate(ctx, session.ID, parent.ID)
		require.NoError(t, err)
		_, err = found.Complete(game.ResultInput{Score: 10}, time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, found))

		again, err := repo.FindForParentForUpdate(ctx, session.ID, parent.ID)
		require.NoError(t, err)
		assert.Equal(t, game.SessionCompleted, again.Status)
		assert.NotNil(t, again.EndedAt)
	})
}

func TestGormResultRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db)
	sessions := NewGormSessionRepository(db)
	ctx := context.Background()

	parent := seedUser(t, db, "parent01")
	child := seedChild(t, db, parent.ID)
	g := seedGame(t, db, game.CodeBBStar)

	base := time.Now().Add(-time.Hour)
	var last *game.Result
	for i := 0; i < 3; i++ {
		s := game.NewSession(parent.ID, child.ID, g, base)
		require.NoError(t, sessions.Create(ctx, s))
		res, err := s.Complete(game.ResultInput{
			Score:        i * 10,
			WrongCount:   i,
			RoundCount:   intPtr(i + 1),
			SuccessCount: intPtr(5),
		}, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, res))
		last = res
	}

	t.Run("one result per session", func(t *testing.T) {
		dup := *last
		dup.ID = 0
		assert.ErrorIs(t, repo.Create(ctx, &dup), shared.ErrAlreadyExists)
	})

	t.Run("lists newest first with limit", func(t *testing.T) {
		results, err := repo.FindByChildAndGame(ctx, child.ID, g.ID, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 20, results[0].Score)
		assert.Equal(t, 10, results[1].Score)

		all, err := repo.FindByChildAndGame(ctx, child.ID, g.ID, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("latest result", func(t *testing.T) {
		latest, err := repo.FindLatestByChildAndGame(ctx, child.ID, g.ID)
		require.NoError(t, err)
		assert.Equal(t, last.SessionID, latest.SessionID)
		assert.Equal(t, 3, *latest.RoundCount)
	})

	t.Run("counts", func(t *testing.T) {
		count, err := repo.CountByChildAndGame(ctx, child.ID, g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = repo.CountByChildAndGame(ctx, child.ID, g.ID+100)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("no results", func(t *testing.T) {
		_, err := repo.FindLatestByChildAndGame(ctx, child.ID+100, g.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, last.ID)
		require.NoError(t, err)
		assert.Equal(t, last.SessionID, found.SessionID)
		assert.Equal(t, g.ID, found.GameID)
		assert.Equal(t, 20, found.Score)

		_, err = repo.FindByID(ctx, last.ID+100)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormGameTransactionScope_RollsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	parent := seedUser(t, db, "parent01")
	child := seedChild(t, db, parent.ID)
	g := seedGame(t, db, game.CodeBBStar)
	session := game.NewSession(parent.ID, child.ID, g, time.Now())
	require.NoError(t, NewGormSessionRepository(db).Create(ctx, session))

	scope := NewGormGameTransactionScope(db)
	err := scope.Execute(ctx, func(repos appgame.TransactionalRepositories) error {
		s, err := repos.SessionRepo().FindForParentForUpdate(ctx, session.ID, parent.ID)
		if err != nil {
			return err
		}
		res, err := s.Complete(game.ResultInput{Score: 1}, time.Now())
		if err != nil {
			return err
		}
		if err := repos.SessionRepo().Update(ctx, s); err != nil {
			return err
		}
		if err := repos.ResultRepo().Create(ctx, res); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	found, err := NewGormSessionRepository(db).FindForParentForUpdate(ctx, session.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, game.SessionStarted, found.Status)

	count, err := NewGormResultRepository(db).CountByChildAndGame(ctx, child.ID, g.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
