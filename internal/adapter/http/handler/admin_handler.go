package handler

import (
	"context"
	"net/http"
	"net/url"

	"mailgun-admin/internal/adapter/http/middleware"
	"mailgun-admin/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SettingsPath is where admin actions land when the referrer is unusable.
const SettingsPath = "/admin/mailgun/settings"

// AdminHandler runs the provider configuration actions. Every action
// redirects back whatever the outcome; failures are logged and audited.
type AdminHandler struct {
	reconSvc     ports.ReconciliationService
	dashboardSvc ports.DashboardService
	domain       string
	log          zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler. domain names the deployment
// in audit records.
func NewAdminHandler(reconSvc ports.ReconciliationService, dashboardSvc ports.DashboardService, domain string, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		reconSvc:     reconSvc,
		dashboardSvc: dashboardSvc,
		domain:       domain,
		log:          log.With().Str("component", "admin_handler").Logger(),
	}
}

// InstallWebhooks handles POST /admin/mailgun/webhooks/install.
func (h *AdminHandler) InstallWebhooks(c *gin.Context) {
	h.run(c, "install webhooks", h.reconSvc.InstallWebhooks)
}

// UninstallWebhooks handles POST /admin/mailgun/webhooks/uninstall.
func (h *AdminHandler) UninstallWebhooks(c *gin.Context) {
	h.run(c, "uninstall webhooks", h.reconSvc.UninstallWebhooks)
}

// InstallDomain handles POST /admin/mailgun/domain/install.
func (h *AdminHandler) InstallDomain(c *gin.Context) {
	h.run(c, "install domain", h.reconSvc.InstallDomain)
}

// UninstallDomain handles POST /admin/mailgun/domain/uninstall.
func (h *AdminHandler) UninstallDomain(c *gin.Context) {
	h.run(c, "uninstall domain", h.reconSvc.UninstallDomain)
}

// ClearCache handles POST /admin/mailgun/cache/clear.
func (h *AdminHandler) ClearCache(c *gin.Context) {
	h.run(c, "clear cache", h.dashboardSvc.ClearCache)
}

func (h *AdminHandler) run(c *gin.Context, action string, fn func(ctx context.Context) error) {
	c.Set(middleware.CtxAuditResource, h.domain)
	if err := fn(c.Request.Context()); err != nil {
		h.log.Debug().Err(err).Str("action", action).Msg("admin action failed")
		c.Set(middleware.CtxAuditError, err.Error())
	}
	c.Redirect(http.StatusSeeOther, backURL(c))
}

// backURL returns the same-host referrer, or the settings route.
func backURL(c *gin.Context) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return SettingsPath
	}
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" {
		return SettingsPath
	}
	if u.Host != "" && u.Host != c.Request.Host {
		return SettingsPath
	}
	back := u.EscapedPath()
	if u.RawQuery != "" {
		back += "?" + u.RawQuery
	}
	return back
}
