package handler

import (
	"mailgun-admin/internal/adapter/http/dto"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/pkg/apperror"
	"mailgun-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

// MailHandler sends test messages through the mailer.
type MailHandler struct {
	mailerSvc ports.MailerService
}

// NewMailHandler creates a new MailHandler.
func NewMailHandler(mailerSvc ports.MailerService) *MailHandler {
	return &MailHandler{mailerSvc: mailerSvc}
}

// SendTest handles POST /admin/mailgun/test-email. JSON and form bodies are
// accepted; an empty body sends the stock message to the admin address.
func (h *MailHandler) SendTest(c *gin.Context) {
	var req dto.TestEmailRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
	}
	dto.SanitizeStruct(&req)

	res, err := h.mailerSvc.Send(c.Request.Context(), req.Message())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TestEmailResponse{ID: res.ID, Message: res.Message})
}
