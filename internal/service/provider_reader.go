package service

import (
	"context"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"
)

// ProviderReader serves provider reads through the cache gateway. Webhooks
// and events are read for the client's sending domain.
type ProviderReader struct {
	client ports.MailgunClient
	cache  *CacheGateway
	ttl    config.CacheConfig
}

// NewProviderReader creates a cached reader over client.
func NewProviderReader(client ports.MailgunClient, cache *CacheGateway, ttl config.CacheConfig) *ProviderReader {
	return &ProviderReader{client: client, cache: cache, ttl: ttl}
}

// Domains lists the account's domains.
func (r *ProviderReader) Domains(ctx context.Context) ([]domain.SendingDomain, bool, error) {
	return Fetch(ctx, r.cache, domain.OpDomainsIndex, nil, r.ttl.DomainTTL,
		func(ctx context.Context) ([]domain.SendingDomain, error) {
			return r.client.ListDomains(ctx)
		})
}

// Domain returns one domain with its DNS records.
func (r *ProviderReader) Domain(ctx context.Context, name string) (*domain.DomainDetail, bool, error) {
	return Fetch(ctx, r.cache, domain.OpDomainsShow, []any{name}, r.ttl.DomainTTL,
		func(ctx context.Context) (*domain.DomainDetail, error) {
			return r.client.ShowDomain(ctx, name)
		})
}

// Webhooks returns the registered callbacks.
func (r *ProviderReader) Webhooks(ctx context.Context) (domain.WebhookConfigState, bool, error) {
	name := r.client.SendingDomain()
	return Fetch(ctx, r.cache, domain.OpWebhooksIndex, []any{name}, r.ttl.WebhookTTL,
		func(ctx context.Context) (domain.WebhookConfigState, error) {
			return r.client.ListWebhooks(ctx, name)
		})
}

// Events returns one page of events matching filter.
func (r *ProviderReader) Events(ctx context.Context, filter domain.EventFilter) ([]domain.ProviderEvent, bool, error) {
	name := r.client.SendingDomain()
	params := append([]any{name}, filter.CacheParams()...)
	return Fetch(ctx, r.cache, domain.OpEventsGet, params, r.ttl.MessageTTL,
		func(ctx context.Context) ([]domain.ProviderEvent, error) {
			return r.client.ListEvents(ctx, name, filter)
		})
}
