package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

var ErrChildNotFound = shared.ErrNotFound.WithMessage(shared.MsgChildNotFound)

// UserService manages the signed-in user and their child profile
type UserService struct {
	userRepo  identity.UserRepository
	childRepo identity.ChildRepository
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, childRepo identity.ChildRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, childRepo: childRepo, logger: logger}
}

// ActiveUser loads the user and rejects deactivated accounts
func (s *UserService) ActiveUser(ctx context.Context, userID int64) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// UpdateEmail validates and stores the user's email
func (s *UserService) UpdateEmail(ctx context.Context, userID int64, email string) (*UserInfo, error) {
	user, err := s.ActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, shared.ErrInvalidInput.WithDetails(map[string][]string{"email": {err.Error()}})
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// GetChild returns the user's child or ErrChildNotFound
func (s *UserService) GetChild(ctx context.Context, userID int64) (*identity.Child, error) {
	child, err := s.childRepo.FindByParentID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}
	return child, nil
}

// UpsertChild creates the child on first call and applies the input afterwards.
// A parent has at most one child.
func (s *UserService) UpsertChild(ctx context.Context, userID int64, input ChildInput) (*identity.Child, error) {
	child, err := s.childRepo.FindByParentID(ctx, userID)
	switch {
	case err == nil:
		if err := child.Apply(identity.ChildUpdate(input)); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		child, err = newChildFromInput(userID, input)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.childRepo.Save(ctx, child); err != nil {
		return nil, err
	}
	s.logger.Info("Child saved", zap.Int64("user_id", userID), zap.Int64("child_id", child.ID))
	return child, nil
}

func newChildFromInput(userID int64, input ChildInput) (*identity.Child, error) {
	details := map[string][]string{}
	if input.Name == nil {
		details["name"] = []string{"This field is required."}
	}
	if input.BirthYear == nil {
		details["birth_year"] = []string{"This field is required."}
	}
	if len(details) > 0 {
		return nil, shared.ErrInvalidInput.WithDetails(details)
	}
	var gender identity.Gender
	if input.Gender != nil {
		gender = *input.Gender
	}
	return identity.NewChild(userID, *input.Name, *input.BirthYear, gender)
}
