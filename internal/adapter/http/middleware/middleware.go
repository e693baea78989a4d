package middleware

import (
	"net/http"
	"strings"
	"time"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"
	"mailgun-admin/pkg/apperror"
	"mailgun-admin/pkg/response"
	"mailgun-admin/pkg/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxAdmin     = "admin"
	CtxRequestID = "request_id"
)

// AdminFrom returns the authenticated admin stored by JWTAuth.
func AdminFrom(c *gin.Context) (domain.Admin, bool) {
	v, exists := c.Get(CtxAdmin)
	if !exists {
		return domain.Admin{}, false
	}
	admin, ok := v.(domain.Admin)
	return admin, ok
}

// JWTAuth creates a middleware that validates admin bearer tokens.
func JWTAuth(tokenSvc ports.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}

		tokenStr := authHeader[7:]
		claims, err := tokenSvc.Validate(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("bearer token rejected")
			response.Abort(c, apperror.ErrInvalidToken())
			return
		}

		c.Set(CtxAdmin, domain.Admin{Subject: claims.Subject, Permissions: claims.Permissions})
		c.Next()
	}
}

// RequirePermission rejects admins lacking p.
func RequirePermission(p domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := AdminFrom(c)
		if !ok || !admin.Has(p) {
			response.Abort(c, apperror.ErrForbidden())
			return
		}
		c.Next()
	}
}

// RequireConfigure rejects admins who may not change provider configuration.
func RequireConfigure(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := AdminFrom(c)
		if !ok || !admin.CanConfigure(production) {
			response.Abort(c, apperror.ErrForbidden())
			return
		}
		c.Next()
	}
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Refresh clears the provider cache before the handler runs when the request
// carries ?refresh=true.
func Refresh(dashboard ports.DashboardService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch strings.ToLower(c.Query("refresh")) {
		case "1", "true", "yes":
			if err := dashboard.ClearCache(c.Request.Context()); err != nil {
				log.Warn().Err(err).Msg("cache refresh failed")
			}
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		if id := c.GetString(CtxRequestID); id != "" {
			event = event.Str("request_id", id)
		}
		if traceID := telemetry.TraceID(c.Request.Context()); traceID != "" {
			event = event.Str("trace_id", traceID)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
