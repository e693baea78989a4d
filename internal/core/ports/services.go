package ports

import (
	"context"
	"time"

	"mailgun-admin/internal/core/domain"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// CacheStore is the byte store behind the cache gateway.
type CacheStore interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every key starting with prefix.
	Clear(ctx context.Context, prefix string) error
}

// HealthChecker backs one entry of the /health report. Name is the key the
// report lists it under.
type HealthChecker interface {
	Ping(ctx context.Context) error
	Name() string
}

// NonceStore manages token uniqueness for replay protection.
type NonceStore interface {
	// CheckAndSet returns true if the nonce is new, false if already seen.
	CheckAndSet(ctx context.Context, scope string, nonce string, ttl time.Duration) (bool, error)
}

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(timestamp, token string) string
}

// TokenService issues and validates admin bearer tokens.
type TokenService interface {
	Generate(subject string, permissions []domain.Permission) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject     string
	Permissions []domain.Permission
}

// PayloadAuditor stores a raw copy of an inbound webhook call.
type PayloadAuditor interface {
	Record(ctx context.Context, rec *domain.WebhookPayloadRecord) error
}

// MessageLogger stores a copy of an outgoing message.
type MessageLogger interface {
	Write(ctx context.Context, msg domain.OutgoingMessage) error
}

// --- Service Ports (Business Logic) ---

// AuditService records admin actions asynchronously.
type AuditService interface {
	Log(ctx context.Context, log *domain.AuditLog)
	Recent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// DashboardService renders the read side of the admin.
type DashboardService interface {
	Messages(ctx context.Context, params domain.SearchParams) domain.MessageList
	SearchFields(params domain.SearchParams) []domain.SearchField
	Settings(ctx context.Context) Settings
	ClearCache(ctx context.Context) error
}

// Settings is the combined domain and webhook view. DomainStatus describes
// the deployment's own domain; Domains lists every domain on the account.
type Settings struct {
	Domain           string                       `json:"domain"`
	DomainStatus     *domain.SendingDomainStatus  `json:"domain_status"`
	Domains          []domain.SendingDomainStatus `json:"domains"`
	WebhookInstalled bool                         `json:"webhook_installed"`
	Webhooks         domain.WebhookConfigState    `json:"webhooks"`
	WebhookURL       string                       `json:"webhook_url"`
	InboundURL       string                       `json:"inbound_url"`
	Notice           string                       `json:"notice,omitempty"`
}

// ReconciliationService installs and removes provider configuration.
// Every method clears the cache before returning.
type ReconciliationService interface {
	WebhookInstalled(ctx context.Context) bool
	InstallWebhooks(ctx context.Context) error
	UninstallWebhooks(ctx context.Context) error
	InstallDomain(ctx context.Context) error
	UninstallDomain(ctx context.Context) error
}

// IngestionService processes inbound webhook calls.
type IngestionService interface {
	// Ingest never fails; the result is for logging and diagnostics.
	Ingest(ctx context.Context, req IncomingWebhook) domain.BatchResult
}

// IncomingWebhook is one inbound HTTP call.
type IncomingWebhook struct {
	Body       []byte
	Headers    map[string]string
	RemoteAddr string
}

// MailerService sends mail through the provider.
type MailerService interface {
	Send(ctx context.Context, msg domain.OutgoingMessage) (*domain.SendResult, error)
}
