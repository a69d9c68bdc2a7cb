package game

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GameRepository persists games
type GameRepository interface {
	FindByID(ctx context.Context, id int64) (*Game, error)

	// FindByCode returns shared.ErrNotFound when no game has the code
	FindByCode(ctx context.Context, code Code) (*Game, error)

	// FindActive returns active games ordered by id
	FindActive(ctx context.Context) ([]Game, error)

	// Upsert inserts the game or updates the row with the same code
	Upsert(ctx context.Context, g *Game) error
}

// SessionRepository persists play sessions
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error

	Update(ctx context.Context, s *Session) error

	// FindForParentForUpdate loads the session owned by parentID with its game,
	// taking a row lock when running inside a transaction.
	FindForParentForUpdate(ctx context.Context, id uuid.UUID, parentID int64) (*Session, error)
}

// ResultRepository persists session results
type ResultRepository interface {
	Create(ctx context.Context, r *Result) error

	// FindByID returns shared.ErrNotFound when no result has the id
	FindByID(ctx context.Context, id int64) (*Result, error)

	// FindByChildAndGame returns results newest first (created_at desc)
	FindByChildAndGame(ctx context.Context, childID, gameID int64, limit int) ([]Result, error)

	// FindLatestByChildAndGame returns the most recently updated result
	FindLatestByChildAndGame(ctx context.Context, childID, gameID int64) (*Result, error)

	// CountByChildAndGame returns how many results the child has for the game
	CountByChildAndGame(ctx context.Context, childID, gameID int64) (int64, error)
}

// RankingRepository persists leaderboard entries
type RankingRepository interface {
	Create(ctx context.Context, e *RankingEntry) error

	Update(ctx context.Context, e *RankingEntry) error

	// First returns the best entry of the game in board order, or shared.ErrNotFound
	First(ctx context.Context, gameID int64) (*RankingEntry, error)

	// ClearHighlights unflags highlighted entries. A nil gameID clears every game;
	// exceptID keeps one entry flagged.
	ClearHighlights(ctx context.Context, gameID *int64, exceptID int64) (int64, error)

	// DeleteByGame removes a game's entries; a nil gameID removes all of them
	DeleteByGame(ctx context.Context, gameID *int64) (int64, error)

	// Top ranks entries with SQL RANK(). A nil gameID ranks across all games.
	Top(ctx context.Context, gameID *int64, limit int) ([]RankedEntry, error)

	// LatestUpdate returns the newest updated_at, or nil when there are no entries
	LatestUpdate(ctx context.Context) (*time.Time, error)
}
