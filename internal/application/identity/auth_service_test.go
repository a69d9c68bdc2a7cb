package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/auth"
	"github.com/kkambbaki/backend/internal/infrastructure/config"
)

func init() {
	identity.PasswordHashCost = bcrypt.MinCost
}

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough-123",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "kkambbaki-test",
	})
}

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.InMemoryTokenBlacklist) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(repo, newTestJWT(), blacklist, zap.NewNop()), blacklist
}

func testUser(t *testing.T, id int64, username, password string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, password, "")
	require.NoError(t, err)
	u.ID = id
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns tokens and user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		user := testUser(t, 1, "parent01", "password123")
		repo.On("FindByUsername", ctx, "parent01").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Username: " parent01 ", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, int64(1), result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByUsername", ctx, "parent01").Return(testUser(t, 1, "parent01", "password123"), nil)

		_, err := svc.Login(ctx, LoginInput{Username: "parent01", Password: "wrongpass1"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.EqualError(t, err, "Unable to log in with provided credentials.")
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("FindByUsername", ctx, "ghost123").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Username: "ghost123", Password: "password123"})
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("inactive user", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		user := testUser(t, 1, "parent01", "password123")
		user.Deactivate()
		repo.On("FindByUsername", ctx, "parent01").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "parent01", Password: "password123"})
		assert.Equal(t, ErrInvalidCredentials, err)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and returns tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("ExistsByUsername", ctx, "newuser1").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 9
		}).Return(nil)

		result, err := svc.Register(ctx, RegisterInput{
			Username: "newuser1", Password1: "password123", Password2: "password123", Email: "a@Example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(9), result.User.ID)
		assert.Equal(t, "a@example.com", result.User.Email)
	})

	t.Run("collects every field error", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)

		_, err := svc.Register(ctx, RegisterInput{
			Username: "abc", Password1: "short", Password2: "other", Email: "nope",
		})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, "INVALID_INPUT", de.Code)
		assert.Equal(t, []string{"Username must be at least 4 characters long."}, de.Details["username"])
		assert.Equal(t, []string{"Password must be at least 8 characters long."}, de.Details["password1"])
		assert.Equal(t, []string{"The two password fields didn't match."}, de.Details["non_field_errors"])
		assert.Contains(t, de.Details, "email")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("ExistsByUsername", ctx, "taken123").Return(true, nil)

		_, err := svc.Register(ctx, RegisterInput{Username: "taken123", Password1: "password123", Password2: "password123"})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"A user with that username already exists."}, de.Details["username"])
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc, _ := newTestAuthService(repo)
		repo.On("ExistsByUsername", ctx, "race1234").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(shared.ErrAlreadyExists)

		_, err := svc.Register(ctx, RegisterInput{Username: "race1234", Password1: "password123", Password2: "password123"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestAuthService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, blacklist := newTestAuthService(repo)
	user := testUser(t, 1, "parent01", "password123")
	repo.On("FindByUsername", ctx, "parent01").Return(user, nil)
	repo.On("Update", ctx, user).Return(nil)
	repo.On("FindByID", ctx, int64(1)).Return(user, nil)

	login, err := svc.Login(ctx, LoginInput{Username: "parent01", Password: "password123"})
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Equal(t, ErrInvalidToken, err)

	claims, err := newTestJWT().ValidateRefreshToken(login.RefreshToken)
	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	pair, err := newTestJWT().GenerateTokenPair(1)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestAuthService_VerifyAndLogout(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	jwtSvc := newTestJWT()
	pair, err := jwtSvc.GenerateTokenPair(1)
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, pair.AccessToken))
	require.NoError(t, svc.Verify(ctx, pair.RefreshToken))
	assert.Equal(t, ErrInvalidToken, svc.Verify(ctx, "garbage"))

	access, err := jwtSvc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, LogoutInput{
		AccessJTI:       access.ID,
		AccessExpiresAt: access.ExpiresAt.Time,
		RefreshToken:    pair.RefreshToken,
	}))

	assert.Equal(t, ErrInvalidToken, svc.Verify(ctx, pair.AccessToken))
	assert.Equal(t, ErrInvalidToken, svc.Verify(ctx, pair.RefreshToken))
}

func TestAuthService_LogoutIgnoresBadRefresh(t *testing.T) {
	svc, _ := newTestAuthService(new(MockUserRepository))
	err := svc.Logout(context.Background(), LogoutInput{RefreshToken: "not-a-token"})
	assert.NoError(t, err)
}

func TestAuthService_CheckUsername(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc, _ := newTestAuthService(repo)
	repo.On("ExistsByUsername", ctx, "parent01").Return(true, nil)

	exists, err := svc.CheckUsername(ctx, " parent01")
	require.NoError(t, err)
	assert.True(t, exists)
}
