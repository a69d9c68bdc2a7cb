package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	reportapp "github.com/kkambbaki/backend/internal/application/report"
	"github.com/kkambbaki/backend/internal/interfaces/http/dto"
	"github.com/kkambbaki/backend/internal/interfaces/http/middleware"
)

// ReportUseCases is what the report endpoints need from the report service
type ReportUseCases interface {
	Detail(ctx context.Context, input reportapp.DetailInput) (*reportapp.ReportDetail, error)
	CheckStatus(ctx context.Context, userID int64) (*reportapp.StatusResult, error)
	RequestEmail(ctx context.Context, input reportapp.EmailRequestInput) error
	SetPin(ctx context.Context, userID int64, pin string) error
}

// ReportDetailRequest carries the report PIN when one is enabled
type ReportDetailRequest struct {
	PIN *string `json:"pin" form:"pin"`
}

// ReportEmailRequest optionally overrides the recipient
type ReportEmailRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

// SetReportPinRequest is the new report PIN
type SetReportPinRequest struct {
	PIN string `json:"pin" binding:"required,min=4,max=6"`
}

// SetReportPinResponse confirms the PIN change
type SetReportPinResponse struct {
	IsSuccess bool   `json:"is_success" example:"true"`
	Message   string `json:"message" example:"Report pin set successfully."`
}

// ReportHandler serves the parent report
type ReportHandler struct {
	BaseHandler
	reports ReportUseCases
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportUseCases) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetDetail godoc
// @ID           getReportDetail
// @Summary      Report detail
// @Description  Authenticates with a JWT or a report bot token (X-BOT-TOKEN header or BOT_TOKEN query).
// @Description  JWT callers with an enabled report PIN must send it; bot token callers skip it.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body ReportDetailRequest false "Report PIN"
// @Success      200 {object} APIResponse[reportapp.ReportDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Security     BotToken
// @Router       /reports/ [post]
// @Router       /reports/ [get]
func (h *ReportHandler) GetDetail(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req ReportDetailRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	} else if pin, ok := c.GetQuery("pin"); ok {
		req.PIN = &pin
	}

	detail, err := h.reports.Detail(c.Request.Context(), reportapp.DetailInput{
		UserID:      userID,
		PIN:         req.PIN,
		ViaBotToken: middleware.IsBotAuth(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}

// CheckStatus godoc
// @ID           checkReportStatus
// @Summary      Report status
// @Description  Returns the report state and queues a regeneration when new results exist
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[reportapp.StatusResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Security     BotToken
// @Router       /reports/status/ [post]
func (h *ReportHandler) CheckStatus(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	status, err := h.reports.CheckStatus(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// RequestEmail godoc
// @ID           requestReportEmail
// @Summary      Email the report
// @Description  Falls back to the account email when none is given
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body ReportEmailRequest false "Recipient"
// @Success      200 {object} APIResponse[dto.MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/email/ [post]
func (h *ReportHandler) RequestEmail(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req ReportEmailRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	if err := h.reports.RequestEmail(c.Request.Context(), reportapp.EmailRequestInput{
		UserID: userID,
		Email:  req.Email,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.MessageResponse{Message: reportapp.MsgEmailQueued})
}

// SetPin godoc
// @ID           setReportPin
// @Summary      Set the report PIN
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        request body SetReportPinRequest true "PIN of 4 to 6 digits"
// @Success      200 {object} APIResponse[SetReportPinResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/set-report-pin/ [post]
func (h *ReportHandler) SetPin(c *gin.Context) {
	userID, ok := h.getUserID(c)
	if !ok {
		return
	}
	var req SetReportPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.reports.SetPin(c.Request.Context(), userID, req.PIN); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SetReportPinResponse{IsSuccess: true, Message: reportapp.MsgPinSet})
}
