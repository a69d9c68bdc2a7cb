package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/kkambbaki/backend/internal/domain/game"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

// MockGameRepository is a mock implementation of game.GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) FindByID(ctx context.Context, id int64) (*game.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Game), args.Error(1)
}

func (m *MockGameRepository) FindByCode(ctx context.Context, code game.Code) (*game.Game, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Game), args.Error(1)
}

func (m *MockGameRepository) FindActive(ctx context.Context) ([]game.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]game.Game), args.Error(1)
}

func (m *MockGameRepository) Upsert(ctx context.Context, g *game.Game) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

// MockSessionRepository is a mock implementation of game.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, s *game.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) Update(ctx context.Context, s *game.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) FindForParentForUpdate(ctx context.Context, id uuid.UUID, parentID int64) (*game.Session, error) {
	args := m.Called(ctx, id, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Session), args.Error(1)
}

// MockResultRepository is a mock implementation of game.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, r *game.Result) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockResultRepository) FindByID(ctx context.Context, id int64) (*game.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Result), args.Error(1)
}

func (m *MockResultRepository) FindByChildAndGame(ctx context.Context, childID, gameID int64, limit int) ([]game.Result, error) {
	args := m.Called(ctx, childID, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]game.Result), args.Error(1)
}

func (m *MockResultRepository) FindLatestByChildAndGame(ctx context.Context, childID, gameID int64) (*game.Result, error) {
	args := m.Called(ctx, childID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Result), args.Error(1)
}

func (m *MockResultRepository) CountByChildAndGame(ctx context.Context, childID, gameID int64) (int64, error) {
	args := m.Called(ctx, childID, gameID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRankingRepository is a mock implementation of game.RankingRepository
type MockRankingRepository struct {
	mock.Mock
}

func (m *MockRankingRepository) Create(ctx context.Context, e *game.RankingEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRankingRepository) Update(ctx context.Context, e *game.RankingEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRankingRepository) First(ctx context.Context, gameID int64) (*game.RankingEntry, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.RankingEntry), args.Error(1)
}

func (m *MockRankingRepository) ClearHighlights(ctx context.Context, gameID *int64, exceptID int64) (int64, error) {
	args := m.Called(ctx, gameID, exceptID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRankingRepository) DeleteByGame(ctx context.Context, gameID *int64) (int64, error) {
	args := m.Called(ctx, gameID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRankingRepository) Top(ctx context.Context, gameID *int64, limit int) ([]game.RankedEntry, error) {
	args := m.Called(ctx, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]game.RankedEntry), args.Error(1)
}

func (m *MockRankingRepository) LatestUpdate(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// MockChildRepository is a mock implementation of identity.ChildRepository
type MockChildRepository struct {
	mock.Mock
}

func (m *MockChildRepository) FindByParentID(ctx context.Context, parentID int64) (*identity.Child, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Child), args.Error(1)
}

func (m *MockChildRepository) FindByID(ctx context.Context, id int64) (*identity.Child, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Child), args.Error(1)
}

func (m *MockChildRepository) Save(ctx context.Context, child *identity.Child) error {
	args := m.Called(ctx, child)
	return args.Error(0)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}
