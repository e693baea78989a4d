package handler

import (
	"mailgun-admin/internal/adapter/http/dto"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/pkg/apperror"
	"mailgun-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the read side of the admin.
type DashboardHandler struct {
	dashboardSvc ports.DashboardService
	auditSvc     ports.AuditService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardSvc ports.DashboardService, auditSvc ports.AuditService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, auditSvc: auditSvc}
}

// Messages handles GET /admin/mailgun/messages.
func (h *DashboardHandler) Messages(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	response.OK(c, h.dashboardSvc.Messages(c.Request.Context(), req.Params()))
}

// SearchFields handles GET /admin/mailgun/search-fields.
func (h *DashboardHandler) SearchFields(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	response.OK(c, h.dashboardSvc.SearchFields(req.Params()))
}

// Settings handles GET /admin/mailgun/settings.
func (h *DashboardHandler) Settings(c *gin.Context) {
	response.OK(c, h.dashboardSvc.Settings(c.Request.Context()))
}

// Audit handles GET /admin/mailgun/audit.
func (h *DashboardHandler) Audit(c *gin.Context) {
	var req dto.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	logs, err := h.auditSvc.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}
	response.OK(c, logs)
}
