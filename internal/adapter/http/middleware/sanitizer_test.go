package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mailgun-admin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoBody(c *gin.Context) {
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusRequestEntityTooLarge, "too large")
		return
	}
	c.String(http.StatusOK, string(b))
}

func TestMaxBodySize(t *testing.T) {
	limits := BodyLimits{"/__mailgun/incoming": 64, "/api/v1/messages": 5}

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"webhook within limit", "/__mailgun/incoming", `{"event-data":{"event":"opened"}}`, http.StatusOK},
		{"exact limit", "/api/v1/messages", "12345", http.StatusOK},
		{"admin declared length exceeded", "/api/v1/messages", strings.Repeat("A", 100), http.StatusRequestEntityTooLarge},
		{"webhook exceeded", "/__mailgun/incoming", strings.Repeat("A", 100), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(MaxBodySize(limits, "/__mailgun/incoming"))
			r.POST("/__mailgun/incoming", echoBody)
			r.POST("/api/v1/messages", echoBody)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader([]byte(tt.body)))
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestMaxBodySize_AdminRejectedBeforeHandler(t *testing.T) {
	called := false
	r := gin.New()
	r.Use(MaxBodySize(BodyLimits{"/api/v1/messages": 8}))
	r.POST("/api/v1/messages", func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(strings.Repeat("x", 32)))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, called)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VAL_003", body.ErrorCode)
}

func TestMaxBodySize_WebhookGetsLargerCap(t *testing.T) {
	payload := strings.Repeat("h", int(DefaultBodyLimit)+1)

	r := gin.New()
	r.Use(MaxBodySize(DefaultBodyLimits(), "/__mailgun/incoming"))
	r.POST("/__mailgun/incoming", echoBody)
	r.POST("/api/v1/messages", echoBody)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/__mailgun/incoming", strings.NewReader(payload)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Body.String(), len(payload))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(payload)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBodyLimits_Fallback(t *testing.T) {
	limits := DefaultBodyLimits()
	assert.Equal(t, WebhookBodyLimit, limits.limitFor("/__mailgun/incoming"))
	assert.Equal(t, DefaultBodyLimit, limits.limitFor("/api/v1/domains"))
	assert.Equal(t, DefaultBodyLimit, limits.limitFor(""))
}

func TestMaxBodySize_NilBody(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodySize(DefaultBodyLimits()))
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
