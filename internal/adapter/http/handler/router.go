package handler

import (
	"mailgun-admin/internal/adapter/http/middleware"
	redisStore "mailgun-admin/internal/adapter/storage/redis"
	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	DashboardSvc      ports.DashboardService
	ReconciliationSvc ports.ReconciliationService
	IngestionSvc      ports.IngestionService
	MailerSvc         ports.MailerService
	AuditSvc          ports.AuditService
	AuditHistory      bool // audit entries are persisted; mounts GET /audit
	TokenSvc          ports.TokenService
	RateLimitStore    *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers    []ports.HealthChecker
	Production        bool
	BaseDir           string // root for webhook test fixtures
	WebhookFixture    []byte
	DeploymentDomain  string
	ServiceName       string // non-empty enables request tracing
	Logger            zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	if deps.ServiceName != "" {
		r.Use(otelgin.Middleware(deps.ServiceName))
	}
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(middleware.DefaultBodyLimits(), "/__mailgun/incoming"))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep: verifies Redis, plus PostgreSQL when enabled)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Provider callbacks (no auth) ---
	webhookHandler := NewWebhookHandler(deps.IngestionSvc, deps.Production, deps.BaseDir, deps.WebhookFixture, deps.Logger)
	hooks := r.Group("/__mailgun")
	{
		hooks.POST("/incoming", webhookHandler.Incoming)
		hooks.GET("/test", rl("webhook_test"), webhookHandler.Test)
	}

	// --- JWT-authenticated admin routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	configure := middleware.RequireConfigure(deps.Production)
	dashboardHandler := NewDashboardHandler(deps.DashboardSvc, deps.AuditSvc)
	adminHandler := NewAdminHandler(deps.ReconciliationSvc, deps.DashboardSvc, deps.DeploymentDomain, deps.Logger)
	mailHandler := NewMailHandler(deps.MailerSvc)

	admin := r.Group("/admin/mailgun",
		jwtAuth,
		middleware.RequirePermission(domain.PermissionAccess),
		middleware.Refresh(deps.DashboardSvc, deps.Logger),
	)
	{
		admin.GET("/messages", rl("admin_read"), dashboardHandler.Messages)
		admin.GET("/search-fields", rl("admin_read"), dashboardHandler.SearchFields)
		admin.GET("/settings", rl("admin_read"), configure, dashboardHandler.Settings)
		if deps.AuditSvc != nil && deps.AuditHistory {
			admin.GET("/audit", rl("admin_read"), configure, dashboardHandler.Audit)
		}

		admin.POST("/webhooks/install", rl("admin_write"), configure, adminHandler.InstallWebhooks)
		admin.POST("/webhooks/uninstall", rl("admin_write"), configure, adminHandler.UninstallWebhooks)
		admin.POST("/domain/install", rl("admin_write"), configure, adminHandler.InstallDomain)
		admin.POST("/domain/uninstall", rl("admin_write"), configure, adminHandler.UninstallDomain)
		admin.POST("/cache/clear", rl("admin_write"), configure, adminHandler.ClearCache)
		admin.POST("/test-email", rl("admin_write"), configure, mailHandler.SendTest)
	}

	return r
}
