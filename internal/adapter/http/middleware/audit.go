package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records admin write actions.
// Reconciliation actions answer with a redirect, so any status below 400
// counts as handled.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusBadRequest {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapPathToAction(c.FullPath())
		if action == "" {
			return
		}

		actor := ""
		if admin, ok := AdminFrom(c); ok {
			actor = admin.Subject
		}

		fields := map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
		}
		if msg := c.GetString(CtxAuditError); msg != "" {
			fields["error"] = msg
		}
		details, _ := json.Marshal(fields)

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Actor:        actor,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.GetString(CtxAuditResource),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

// Handlers name the resource they acted on, and any failure they absorbed,
// through these context keys.
const (
	CtxAuditResource = "audit_resource"
	CtxAuditError    = "audit_error"
)

func mapPathToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/admin/mailgun/webhooks/install":
		return domain.AuditActionInstallWebhook, "webhook"
	case "/admin/mailgun/webhooks/uninstall":
		return domain.AuditActionUninstallWebhook, "webhook"
	case "/admin/mailgun/domain/install":
		return domain.AuditActionInstallDomain, "domain"
	case "/admin/mailgun/domain/uninstall":
		return domain.AuditActionUninstallDomain, "domain"
	case "/admin/mailgun/test-email":
		return domain.AuditActionSendTestEmail, "message"
	case "/admin/mailgun/cache/clear":
		return domain.AuditActionClearCache, "cache"
	}
	return "", ""
}
