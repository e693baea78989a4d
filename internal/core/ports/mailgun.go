package ports

import (
	"context"

	"mailgun-admin/internal/core/domain"
)

//go:generate mockgen -source=mailgun.go -destination=mocks/mock_mailgun.go -package=mocks

// MailgunClient is the typed surface of the provider API used by this service.
// Implementations do not retry.
type MailgunClient interface {
	// SendingDomain returns the configured default sending domain.
	SendingDomain() string

	ListDomains(ctx context.Context) ([]domain.SendingDomain, error)
	ShowDomain(ctx context.Context, name string) (*domain.DomainDetail, error)
	CreateDomain(ctx context.Context, name string) error
	DeleteDomain(ctx context.Context, name string) error

	ListWebhooks(ctx context.Context, domainName string) (domain.WebhookConfigState, error)
	CreateWebhook(ctx context.Context, domainName, id, url string) error
	DeleteWebhook(ctx context.Context, domainName, id string) error

	ListEvents(ctx context.Context, domainName string, filter domain.EventFilter) ([]domain.ProviderEvent, error)

	SendMessage(ctx context.Context, domainName string, msg domain.OutgoingMessage) (*domain.SendResult, error)
}
