package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_InstallWebhooksRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)

	done := make(chan struct{})
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionInstallWebhook, log.Action)
			assert.Equal(t, "webhook", log.ResourceType)
			assert.Equal(t, "ops@example.com", log.Actor)
			assert.Equal(t, "mg.example.org", log.ResourceID)
			assert.Contains(t, log.Details, `"error":"provider down"`)
			assert.Contains(t, log.Details, `"status":303`)
			close(done)
		},
	)

	r := gin.New()
	r.Use(withAdmin(domain.PermissionAdmin), AuditLog(mockAudit))
	r.POST("/admin/mailgun/webhooks/install", func(c *gin.Context) {
		c.Set(CtxAuditResource, "mg.example.org")
		c.Set(CtxAuditError, "provider down")
		c.Redirect(http.StatusSeeOther, "/admin/mailgun/settings")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/mailgun/webhooks/install", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("audit not called")
	}
}

func TestAuditLog_SkipsGET(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)
	// No expectations - Log should NOT be called for GET

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.GET("/admin/mailgun/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/mailgun/settings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuditLog_SkipsFailedRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/admin/mailgun/test-email", func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/mailgun/test-email", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestAuditLog_SkipsUnmappedRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/__mailgun/incoming", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/__mailgun/incoming", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapPathToAction(t *testing.T) {
	tests := []struct {
		route        string
		action       domain.AuditAction
		resourceType string
	}{
		{"/admin/mailgun/webhooks/install", domain.AuditActionInstallWebhook, "webhook"},
		{"/admin/mailgun/webhooks/uninstall", domain.AuditActionUninstallWebhook, "webhook"},
		{"/admin/mailgun/domain/install", domain.AuditActionInstallDomain, "domain"},
		{"/admin/mailgun/domain/uninstall", domain.AuditActionUninstallDomain, "domain"},
		{"/admin/mailgun/test-email", domain.AuditActionSendTestEmail, "message"},
		{"/admin/mailgun/cache/clear", domain.AuditActionClearCache, "cache"},
		{"/admin/mailgun/messages", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			action, resType := mapPathToAction(tt.route)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.resourceType, resType)
		})
	}
}
