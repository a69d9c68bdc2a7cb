package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
)

// Bot token transport
const (
	BotTokenHeader     = "X-BOT-TOKEN"
	BotTokenQueryParam = "BOT_TOKEN"
)

// BotTokenVerifier resolves a report bot token to its user
type BotTokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.User, *identity.BotToken, error)
}

// ActiveUserLoader loads a user and rejects deactivated accounts
type ActiveUserLoader interface {
	ActiveUser(ctx context.Context, userID int64) (*identity.User, error)
}

// botTokenFromRequest reads the header first, then the query string
func botTokenFromRequest(c *gin.Context) string {
	if token := c.GetHeader(BotTokenHeader); token != "" {
		return token
	}
	return c.Query(BotTokenQueryParam)
}

func authenticateBot(c *gin.Context, verifier BotTokenVerifier, token string) error {
	user, bt, err := verifier.Verify(c.Request.Context(), token)
	if err != nil {
		return err
	}
	c.Set(AuthUserKey, user)
	c.Set(AuthViaBotKey, true)
	c.Set(BotTokenKey, bt)
	setAuthUser(c, user.ID)
	return nil
}

// JWTOrBotAuth accepts a bearer JWT or a report bot token.
// A request carrying an Authorization header is judged on the JWT alone.
func JWTOrBotAuth(cfg JWTMiddlewareConfig, verifier BotTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AuthHeaderKey) == "" {
			if token := botTokenFromRequest(c); token != "" {
				if err := authenticateBot(c, verifier, token); err != nil {
					abortDomainError(c, err, cfg.Logger)
					return
				}
				c.Next()
				return
			}
		}

		if err := authenticateJWT(c, cfg); err != nil {
			handleAuthError(c, cfg, err)
			return
		}
		c.Next()
	}
}

// RequireActiveUser rejects users that are deactivated or gone.
// It must run after an authentication middleware.
func RequireActiveUser(users ActiveUserLoader, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get(AuthUserKey); ok {
			if u, ok := v.(*identity.User); ok && u.IsActive {
				c.Next()
				return
			}
		}

		userID, ok := GetAuthUserID(c)
		if !ok {
			abortUnauthorized(c, "Authentication credentials were not provided.")
			return
		}
		user, err := users.ActiveUser(c.Request.Context(), userID)
		if err != nil {
			abortDomainError(c, err, log)
			return
		}
		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// abortDomainError answers an auth failure. Inactive accounts get COMMON_403.
func abortDomainError(c *gin.Context, err error, log *zap.Logger) {
	requestID := c.GetString(RequestIDKey)
	de, ok := shared.AsDomainError(err)
	if !ok {
		if log != nil {
			log.Error("Authentication lookup failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
		return
	}
	if errors.Is(de, shared.ErrForbidden) {
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInactiveUser, de.Message, requestID))
		return
	}
	code := dto.NormalizeErrorCode(de.Code)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, de.Message, requestID))
}

// GetAuthUser returns the user loaded by RequireActiveUser or bot authentication
func GetAuthUser(c *gin.Context) *identity.User {
	if v, ok := c.Get(AuthUserKey); ok {
		if u, ok := v.(*identity.User); ok {
			return u
		}
	}
	return nil
}
