package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kkambbaki/backend/internal/domain/shared"
	"github.com/kkambbaki/backend/internal/infrastructure/logger"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
	"github.com/kkambbaki/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// getUserID returns the authenticated user's ID or answers 401
func (h *BaseHandler) getUserID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication credentials were not provided.")
		return 0, false
	}
	return userID, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 response with per-field messages
func (h *BaseHandler) ValidationError(c *gin.Context, details map[string][]string) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", getRequestID(c), details))
}

// BindError answers a failed ShouldBind. Validator failures carry field details,
// anything else (malformed JSON, wrong types) is a plain bad request.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		middleware.AbortBodyTooLarge(c)
		return
	}
	if details := middleware.ValidationDetails(err); details != nil {
		h.ValidationError(c, details)
		return
	}
	h.BadRequest(c, "Invalid request body")
}

// HandleError converts errors returned by application services to HTTP responses.
// Domain errors map through the dto error-code table; anything else is a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		if errors.Is(domainErr, shared.ErrForbidden) && domainErr.Message == shared.MsgInactiveUser {
			code = dto.ErrCodeInactiveUser
		}
		resp := dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID)
		if len(domainErr.Details) > 0 {
			resp.Error.Details = domainErr.Details
		}
		c.JSON(dto.GetHTTPStatus(code), resp)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
