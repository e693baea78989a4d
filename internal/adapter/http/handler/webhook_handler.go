package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"mailgun-admin/internal/core/ports"
	"mailgun-admin/pkg/apperror"
	"mailgun-admin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	replyOK     = "OK"
	replyNoData = "NO DATA"
)

// WebhookHandler receives provider callbacks.
type WebhookHandler struct {
	ingestSvc  ports.IngestionService
	production bool
	baseDir    string
	fixture    []byte
	log        zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler. Test replays read named
// files below baseDir and fall back to fixture.
func NewWebhookHandler(ingestSvc ports.IngestionService, production bool, baseDir string, fixture []byte, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingestSvc:  ingestSvc,
		production: production,
		baseDir:    baseDir,
		fixture:    fixture,
		log:        log.With().Str("component", "webhook_handler").Logger(),
	}
}

// Incoming handles POST /__mailgun/incoming. The provider retries on any
// non-200 answer, so the reply is always 200.
func (h *WebhookHandler) Incoming(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Msg("webhook handler panicked")
			response.Text(c, http.StatusOK, replyOK)
		}
	}()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.Warn().Err(err).Msg("reading webhook body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		response.Text(c, http.StatusOK, replyNoData)
		return
	}

	res := h.ingestSvc.Ingest(c.Request.Context(), ports.IncomingWebhook{
		Body:       body,
		Headers:    flattenHeaders(c.Request.Header),
		RemoteAddr: c.ClientIP(),
	})
	if res.Err != nil {
		h.log.Debug().Err(res.Err).Str("batch_id", res.BatchID).Msg("webhook handlers reported errors")
	}
	response.Text(c, http.StatusOK, replyOK)
}

// Test handles GET /__mailgun/test?file=. It replays a stored callback batch
// through the pipeline and is refused in production.
func (h *WebhookHandler) Test(c *gin.Context) {
	if h.production {
		response.Error(c, apperror.ErrLiveModeOnly())
		return
	}

	body := h.fixture
	if name := c.Query("file"); name != "" {
		data, err := os.ReadFile(h.fixturePath(name))
		if err != nil {
			h.log.Debug().Err(err).Str("file", name).Msg("webhook fixture unreadable")
			response.Error(c, apperror.ErrNotFound("fixture"))
			return
		}
		body = data
	}

	res := h.ingestSvc.Ingest(c.Request.Context(), ports.IncomingWebhook{
		Body:       body,
		Headers:    flattenHeaders(c.Request.Header),
		RemoteAddr: c.ClientIP(),
	})
	response.Text(c, http.StatusOK, fmt.Sprintf("TEST OK - %d events processed / %d events skipped", res.Processed, res.Skipped))
}

// fixturePath keeps name inside the base directory.
func (h *WebhookHandler) fixturePath(name string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(name))
	return filepath.Join(h.baseDir, clean)
}

func flattenHeaders(hdr http.Header) map[string]string {
	out := make(map[string]string, len(hdr))
	for k, v := range hdr {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
