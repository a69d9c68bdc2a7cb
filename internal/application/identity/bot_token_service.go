package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
)

var (
	ErrInvalidBotToken = shared.ErrUnauthorized.WithMessage("Invalid BOT token")
	ErrBotUserInactive = shared.ErrUnauthorized.WithMessage("User inactive or deleted")
)

// BotTokenService issues and checks single-use bot tokens
type BotTokenService struct {
	tokenRepo identity.BotTokenRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
}

// NewBotTokenService creates a new bot token service
func NewBotTokenService(tokenRepo identity.BotTokenRepository, userRepo identity.UserRepository, logger *zap.Logger) *BotTokenService {
	return &BotTokenService{tokenRepo: tokenRepo, userRepo: userRepo, logger: logger}
}

// CreateForReport issues a token letting the renderer open the user's report
func (s *BotTokenService) CreateForReport(ctx context.Context, userID int64) (*identity.BotToken, error) {
	token, err := identity.NewBotToken(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	s.logger.Info("Bot token created", zap.Int64("user_id", userID), zap.Int64("bot_token_id", token.ID))
	return token, nil
}

// Verify resolves the token's user.
// It fails with ErrInvalidBotToken or ErrBotUserInactive.
func (s *BotTokenService) Verify(ctx context.Context, token string) (*identity.User, *identity.BotToken, error) {
	if token == "" {
		return nil, nil, ErrInvalidBotToken
	}
	bt, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil, ErrInvalidBotToken
		}
		return nil, nil, err
	}
	user, err := s.userRepo.FindByID(ctx, bt.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil, ErrBotUserInactive
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, ErrBotUserInactive
	}
	return user, bt, nil
}

// VerifyAndConsume verifies the token and deletes it on success
func (s *BotTokenService) VerifyAndConsume(ctx context.Context, token string) (*identity.User, error) {
	user, bt, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.Consume(ctx, bt.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Consume deletes the token. A token that is already gone is not an error.
func (s *BotTokenService) Consume(ctx context.Context, id int64) error {
	if err := s.tokenRepo.Delete(ctx, id); err != nil {
		if shared.IsNotFound(err) {
			s.logger.Debug("Bot token already consumed", zap.Int64("bot_token_id", id))
			return nil
		}
		return err
	}
	return nil
}
