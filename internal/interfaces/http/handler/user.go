package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	identityapp "github.com/kkambbaki/backend/internal/application/identity"
	"github.com/kkambbaki/backend/internal/domain/identity"
	"github.com/kkambbaki/backend/internal/interfaces/http/middleware"
)

// UserUseCases is what the account endpoints need from the identity services
type UserUseCases interface {
	UpdateEmail(ctx context.Context, userID int64, email string) (*identityapp.UserInfo, error)
	GetChild(ctx context.Context, userID int64) (*identity.Child, error)
	UpsertChild(ctx context.Context, userID int64, input identityapp.ChildInput) (*identity.Child, error)
}

// UserHandler serves the current account and its child profile
type UserHandler struct {
	BaseHandler
	userService UserUseCases
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService UserUseCases) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetCurrentUser godoc
// @ID           getCurrentUser
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[UserResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/user/ [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		h.Unauthorized(c, "Authentication credentials were not provided.")
		return
	}
	h.Success(c, toUserResponse(identityapp.ToUserInfo(user)))
}

// UpdateEmail godoc
// @ID           updateUserEmail
// @Summary      Change email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpdateEmailRequest true "New email"
// @Success      200 {object} APIResponse[UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/email/ [patch]
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	info, err := h.userService.UpdateEmail(c.Request.Context(), userID, req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(*info))
}

// GetChild godoc
// @ID           getChild
// @Summary      Child profile
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[ChildResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/child/ [get]
func (h *UserHandler) GetChild(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	child, err := h.userService.GetChild(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toChildResponse(child))
}

// SaveChild godoc
// @ID           saveChild
// @Summary      Create or update the child profile
// @Description  The first call creates the child and needs name and birth_year. Later calls update the given fields.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body ChildRequest true "Child profile"
// @Success      200 {object} APIResponse[ChildResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/child/ [post]
// @Router       /users/child/ [put]
// @Router       /users/child/ [patch]
func (h *UserHandler) SaveChild(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	child, err := h.userService.UpsertChild(c.Request.Context(), userID, identityapp.ChildInput{
		Name:      req.Name,
		BirthYear: req.BirthYear,
		Gender:    req.Gender,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toChildResponse(child))
}
