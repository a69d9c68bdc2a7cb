package identity

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kkambbaki/backend/internal/domain/identity"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
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

// MockBotTokenRepository is a mock implementation of identity.BotTokenRepository
type MockBotTokenRepository struct {
	mock.Mock
}

func (m *MockBotTokenRepository) Create(ctx context.Context, token *identity.BotToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockBotTokenRepository) FindByID(ctx context.Context, id int64) (*identity.BotToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.BotToken), args.Error(1)
}

func (m *MockBotTokenRepository) FindByToken(ctx context.Context, token string) (*identity.BotToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.BotToken), args.Error(1)
}

func (m *MockBotTokenRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
