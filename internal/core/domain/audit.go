package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited admin action.
type AuditAction string

const (
	AuditActionInstallWebhook   AuditAction = "INSTALL_WEBHOOK"
	AuditActionUninstallWebhook AuditAction = "UNINSTALL_WEBHOOK"
	AuditActionInstallDomain    AuditAction = "INSTALL_DOMAIN"
	AuditActionUninstallDomain  AuditAction = "UNINSTALL_DOMAIN"
	AuditActionSendTestEmail    AuditAction = "SEND_TEST_EMAIL"
	AuditActionClearCache       AuditAction = "CLEAR_CACHE"
)

// AuditLog records a single admin action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        string      `json:"actor"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}

// WebhookPayloadRecord is the raw copy of one inbound webhook call.
type WebhookPayloadRecord struct {
	BatchID    string            `json:"batch_id"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
	RemoteAddr string            `json:"remote_addr"`
	ReceivedAt time.Time         `json:"received_at"`
}
