package ports

import (
	"context"

	"mailgun-admin/internal/core/domain"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// AuditRepository persists admin audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// WebhookPayloadRepository persists raw inbound webhook payloads.
type WebhookPayloadRepository interface {
	Create(ctx context.Context, rec *domain.WebhookPayloadRecord) error
}
