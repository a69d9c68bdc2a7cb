package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestUserService_ActiveUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockChildRepository), zap.NewNop())

	active := testUser(t, 1, "parent01", "password123")
	inactive := testUser(t, 2, "parent02", "password123")
	inactive.Deactivate()
	users.On("FindByID", ctx, int64(1)).Return(active, nil)
	users.On("FindByID", ctx, int64(2)).Return(inactive, nil)
	users.On("FindByID", ctx, int64(3)).Return(nil, shared.ErrNotFound)

	u, err := svc.ActiveUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "parent01", u.Username)

	_, err = svc.ActiveUser(ctx, 2)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.EqualError(t, err, "계정이 비활성화 되었습니다. 관리자에게 문의해주세요.")

	_, err = svc.ActiveUser(ctx, 3)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestUserService_UpdateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(users, new(MockChildRepository), zap.NewNop())
	user := testUser(t, 1, "parent01", "password123")
	users.On("FindByID", ctx, int64(1)).Return(user, nil)
	users.On("Update", ctx, user).Return(nil)

	info, err := svc.UpdateEmail(ctx, 1, "Mom@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "Mom@example.com", info.Email)

	_, err = svc.UpdateEmail(ctx, 1, "not-an-email")
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Contains(t, de.Details, "email")
}

func TestUserService_GetChild(t *testing.T) {
	ctx := context.Background()
	children := new(MockChildRepository)
	svc := NewUserService(new(MockUserRepository), children, zap.NewNop())
	children.On("FindByParentID", ctx, int64(1)).Return(nil, shared.ErrNotFound)

	_, err := svc.GetChild(ctx, 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.EqualError(t, err, "등록된 자녀 정보가 없습니다.")
}

func TestUserService_UpsertChild(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with default gender", func(t *testing.T) {
		children := new(MockChildRepository)
		svc := NewUserService(new(MockUserRepository), children, zap.NewNop())
		children.On("FindByParentID", ctx, int64(1)).Return(nil, shared.ErrNotFound)
		children.On("Save", ctx, mock.AnythingOfType("*identity.Child")).Run(func(args mock.Arguments) {
			args.Get(1).(*identity.Child).ID = 5
		}).Return(nil)

		child, err := svc.UpsertChild(ctx, 1, ChildInput{Name: strPtr(" 민준 "), BirthYear: intPtr(2019)})
		require.NoError(t, err)
		assert.Equal(t, int64(5), child.ID)
		assert.Equal(t, "민준", child.Name)
		assert.Equal(t, identity.GenderNoChoice, child.Gender)
	})

	t.Run("create requires name and birth year", func(t *testing.T) {
		children := new(MockChildRepository)
		svc := NewUserService(new(MockUserRepository), children, zap.NewNop())
		children.On("FindByParentID", ctx, int64(1)).Return(nil, shared.ErrNotFound)

		_, err := svc.UpsertChild(ctx, 1, ChildInput{})
		de, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Contains(t, de.Details, "name")
		assert.Contains(t, de.Details, "birth_year")
		children.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		children := new(MockChildRepository)
		svc := NewUserService(new(MockUserRepository), children, zap.NewNop())
		existing, err := identity.NewChild(1, "민준", 2019, identity.GenderMale)
		require.NoError(t, err)
		existing.ID = 5
		children.On("FindByParentID", ctx, int64(1)).Return(existing, nil)
		children.On("Save", ctx, existing).Return(nil)

		child, err := svc.UpsertChild(ctx, 1, ChildInput{BirthYear: intPtr(2020)})
		require.NoError(t, err)
		assert.Equal(t, "민준", child.Name)
		assert.Equal(t, 2020, child.BirthYear)
		assert.Equal(t, identity.GenderMale, child.Gender)
	})

	t.Run("invalid update is rejected", func(t *testing.T) {
		children := new(MockChildRepository)
		svc := NewUserService(new(MockUserRepository), children, zap.NewNop())
		existing, err := identity.NewChild(1, "민준", 2019, identity.GenderMale)
		require.NoError(t, err)
		children.On("FindByParentID", ctx, int64(1)).Return(existing, nil)

		_, err = svc.UpsertChild(ctx, 1, ChildInput{BirthYear: intPtr(1800)})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Equal(t, 2019, existing.BirthYear)
	})
}
