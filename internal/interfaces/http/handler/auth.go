package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	identityapp "github.com/kkambbaki/backend/internal/application/identity"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
	"github.com/kkambbaki/backend/internal/interfaces/http/middleware"
)

// AuthUseCases is what the auth endpoints need from the identity services
type AuthUseCases interface {
	Login(ctx context.Context, input identityapp.LoginInput) (*identityapp.AuthResult, error)
	Register(ctx context.Context, input identityapp.RegisterInput) (*identityapp.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*identityapp.TokenPairResult, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, input identityapp.LogoutInput) error
	CheckUsername(ctx context.Context, username string) (bool, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthUseCases
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthUseCases) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @ID           loginUser
// @Summary      User login
// @Description  Authenticate with username and password and receive a JWT pair
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /users/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAuthResponse(result))
}

// Register godoc
// @ID           registerUser
// @Summary      Sign up
// @Description  Create an account and log it in. Every failing field is reported in error.details.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body RegistrationRequest true "Signup form"
// @Success      201 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /users/registration/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Username:  req.Username,
		Password1: req.Password1,
		Password2: req.Password2,
		Email:     strings.TrimSpace(req.Email),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAuthResponse(result))
}

// Logout godoc
// @ID           logoutUser
// @Summary      Logout
// @Description  Revoke the current access token and, when given, the refresh token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} APIResponse[dto.MessageResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication credentials were not provided.")
		return
	}

	// the body is optional
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	input := identityapp.LogoutInput{
		AccessJTI:    claims.ID,
		RefreshToken: req.Refresh,
	}
	if claims.ExpiresAt != nil {
		input.AccessExpiresAt = claims.ExpiresAt.Time
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.MessageResponse{Message: "Successfully logged out."})
}

// RefreshToken godoc
// @ID           refreshToken
// @Summary      Refresh tokens
// @Description  Rotate a refresh token. The presented token is revoked.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[TokenPairResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, TokenPairResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

// VerifyToken godoc
// @ID           verifyToken
// @Summary      Verify a token
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body VerifyTokenRequest true "Token"
// @Success      200 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Router       /users/token/verify/ [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.authService.Verify(c.Request.Context(), req.Token); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{})
}

// CheckUsername godoc
// @ID           checkUsername
// @Summary      Check username availability
// @Tags         users
// @Produce      json
// @Param        username query string true "Username"
// @Success      200 {object} APIResponse[UsernameExistsResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /users/check-username/ [get]
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		h.BadRequest(c, "username parameter is required")
		return
	}
	exists, err := h.authService.CheckUsername(c.Request.Context(), username)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, UsernameExistsResponse{Exists: exists})
}
