package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/infrastructure/auth"
	"github.com/kkambbaki/backend/internal/infrastructure/logger"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	JWTClaimsKey  = "jwt_claims"
	AuthUserIDKey = "user_id"
	AuthUserKey   = "auth_user"
	AuthViaBotKey = "auth_via_bot"
	BotTokenKey   = "bot_token"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Optional callback if token is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	Logger  *zap.Logger
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
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

// authenticateJWT validates the bearer token and stores its claims in the context
func authenticateJWT(c *gin.Context, cfg JWTMiddlewareConfig) error {
	authHeader := c.GetHeader(AuthHeaderKey)
	if authHeader == "" {
		return errMissingCredentials
	}
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return auth.ErrInvalidToken
	}
	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return auth.ErrInvalidToken
	}

	claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
	if err != nil {
		return err
	}

	if cfg.TokenBlacklist != nil && claims.ID != "" {
		blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			// fail open
			if cfg.Logger != nil {
				cfg.Logger.Error("Failed to check token blacklist",
					zap.String("jti", claims.ID),
					zap.Error(err))
			}
		} else if blacklisted {
			return auth.ErrTokenBlacklisted
		}
	}

	c.Set(JWTClaimsKey, claims)
	setAuthUser(c, claims.UserID)
	return nil
}

func setAuthUser(c *gin.Context, userID int64) {
	c.Set(AuthUserIDKey, userID)
	ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), userID)
	c.Request = c.Request.WithContext(ctx)
}

var errMissingCredentials = errors.New("authentication credentials were not provided")

// handleAuthError aborts with 401
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}
	abortUnauthorized(c, authErrorMessage(err))
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, errMissingCredentials):
		return "Authentication credentials were not provided."
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return "Token is blacklisted"
	default:
		return "Given token not valid for any token type"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, c.GetString(RequestIDKey)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetAuthUserID returns the authenticated user's ID
func GetAuthUserID(c *gin.Context) (int64, bool) {
	if v, exists := c.Get(AuthUserIDKey); exists {
		if id, ok := v.(int64); ok {
			return id, true
		}
	}
	return 0, false
}

// IsBotAuth reports whether the request was authenticated with a bot token
func IsBotAuth(c *gin.Context) bool {
	return c.GetBool(AuthViaBotKey)
}
