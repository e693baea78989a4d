package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"mailgun-admin/internal/core/domain"
)

// WebhookPayloadRepo implements ports.WebhookPayloadRepository.
type WebhookPayloadRepo struct {
	pool Pool
}

// NewWebhookPayloadRepo creates a PostgreSQL-backed webhook payload repository.
func NewWebhookPayloadRepo(pool Pool) *WebhookPayloadRepo {
	return &WebhookPayloadRepo{pool: pool}
}

// Create stores the raw payload. A batch id is written once.
func (r *WebhookPayloadRepo) Create(ctx context.Context, rec *domain.WebhookPayloadRecord) error {
	headers, err := json.Marshal(rec.Headers)
	if err != nil {
		return fmt.Errorf("marshal webhook headers: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO webhook_audit_logs (batch_id, headers, body, remote_addr, received_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (batch_id) DO NOTHING`,
		rec.BatchID, headers, rec.Body, rec.RemoteAddr, rec.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook payload: %w", err)
	}
	return nil
}
