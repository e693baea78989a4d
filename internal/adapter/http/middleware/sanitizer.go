package middleware

import (
	"net/http"

	"mailgun-admin/pkg/apperror"
	"mailgun-admin/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultBodyLimit caps admin JSON bodies.
	DefaultBodyLimit int64 = 1 << 20
	// WebhookBodyLimit caps provider callbacks, which carry full message
	// headers and can batch several events.
	WebhookBodyLimit int64 = 4 << 20
)

// BodyLimits maps a route pattern (gin's FullPath) to its own cap.
type BodyLimits map[string]int64

// DefaultBodyLimits returns the per-route caps the router installs.
func DefaultBodyLimits() BodyLimits {
	return BodyLimits{"/__mailgun/incoming": WebhookBodyLimit}
}

func (l BodyLimits) limitFor(route string) int64 {
	if n, ok := l[route]; ok {
		return n
	}
	return DefaultBodyLimit
}

// MaxBodySize wraps the request body in a reader capped per route.
// Admin routes that declare a Content-Length over their cap are rejected
// with 413 before the handler runs. Webhook routes are only capped: the
// provider retries anything but 200, so the handler decides the reply.
func MaxBodySize(limits BodyLimits, passthrough ...string) gin.HandlerFunc {
	lenient := make(map[string]bool, len(passthrough))
	for _, route := range passthrough {
		lenient[route] = true
	}
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		route := c.FullPath()
		max := limits.limitFor(route)
		if c.Request.ContentLength > max && !lenient[route] {
			response.Abort(c, apperror.ErrPayloadTooLarge(max))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		c.Next()
	}
}
