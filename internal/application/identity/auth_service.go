// Package identity implements account, child profile and bot token use cases.
package identity

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/auth"
)

var (
	ErrInvalidCredentials = shared.ErrInvalidInput.WithMessage("Unable to log in with provided credentials.")
	ErrInvalidToken       = shared.ErrUnauthorized.WithMessage("Token is invalid or expired")
	ErrInactiveUser       = shared.ErrForbidden.WithMessage(shared.MsgInactiveUser)
)

const (
	msgPasswordMismatch = "The two password fields didn't match."
	msgUsernameTaken    = "A user with that username already exists."
)

// AuthService handles login, signup and token lifecycle
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user and returns tokens.
// Unknown users, wrong passwords and inactive accounts are indistinguishable.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	username := identity.NormalizeUsername(input.Username)
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Info("Login failed: unknown user", zap.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.VerifyPassword(input.Password) {
		s.logger.Info("Login failed", zap.Int64("user_id", user.ID), zap.Bool("active", user.IsActive))
		return nil, ErrInvalidCredentials
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	return s.issue(user)
}

// Register creates an account and logs it in.
// Every failing field is reported at once.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	username := identity.NormalizeUsername(input.Username)
	details := map[string][]string{}

	if err := identity.ValidateUsername(username); err != nil {
		details["username"] = append(details["username"], err.Error())
	} else {
		exists, err := s.userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if exists {
			details["username"] = append(details["username"], msgUsernameTaken)
		}
	}
	if err := identity.ValidatePassword(input.Password1); err != nil {
		details["password1"] = append(details["password1"], err.Error())
	}
	if input.Password1 != input.Password2 {
		details["non_field_errors"] = append(details["non_field_errors"], msgPasswordMismatch)
	}
	if input.Email != "" {
		if err := identity.ValidateEmail(input.Email); err != nil {
			details["email"] = append(details["email"], err.Error())
		}
	}
	if len(details) > 0 {
		return nil, shared.ErrInvalidInput.WithDetails(details)
	}

	user, err := identity.NewUser(username, input.Password1, input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.ErrInvalidInput.WithDetails(map[string][]string{"username": {msgUsernameTaken}})
		}
		return nil, err
	}
	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return s.issue(user)
}

// Refresh rotates a refresh token. The presented token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPairResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if err := s.ensureNotRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
		return nil, err
	}
	pair, err := s.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}
	result := toTokenPair(pair)
	return &result, nil
}

// Verify accepts any unexpired, unrevoked token of either type
func (s *AuthService) Verify(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateAnyToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	return s.ensureNotRevoked(ctx, claims.ID)
}

// Logout revokes the access token and, when given, the refresh token.
// An unusable refresh token is ignored.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	now := s.now()
	if input.AccessJTI != "" {
		ttl := input.AccessExpiresAt.Sub(now)
		if ttl > 0 {
			if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, ttl); err != nil {
				return err
			}
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err != nil {
			s.logger.Debug("Ignoring invalid refresh token on logout", zap.Error(err))
			return nil
		}
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL(now)); err != nil {
			return err
		}
	}
	return nil
}

// CheckUsername reports whether the username is taken
func (s *AuthService) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.userRepo.ExistsByUsername(ctx, identity.NormalizeUsername(username))
}

func (s *AuthService) ensureNotRevoked(ctx context.Context, jti string) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, jti)
	if err != nil {
		return err
	}
	if revoked {
		return ErrInvalidToken
	}
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID)
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	return &AuthResult{TokenPairResult: toTokenPair(pair), User: ToUserInfo(user)}, nil
}

func toTokenPair(pair *auth.TokenPair) TokenPairResult {
	return TokenPairResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
	}
}
