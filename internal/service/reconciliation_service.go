package service

import (
	"context"
	"errors"
	"fmt"

	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/rs/zerolog"
)

type reconciliationService struct {
	client ports.MailgunClient
	reader *ProviderReader
	cache  *CacheGateway
	addr   *AddressResolver
	events []string
	log    zerolog.Logger
}

// NewReconciliationService creates the service that installs and removes the
// deployment's webhooks and sending domain. events are the webhook ids to
// register.
func NewReconciliationService(
	client ports.MailgunClient,
	reader *ProviderReader,
	cache *CacheGateway,
	addr *AddressResolver,
	events []string,
	log zerolog.Logger,
) ports.ReconciliationService {
	return &reconciliationService{
		client: client,
		reader: reader,
		cache:  cache,
		addr:   addr,
		events: events,
		log:    log.With().Str("component", "reconciliation").Logger(),
	}
}

// WebhookInstalled reports whether any registered callback points at this
// deployment.
func (s *reconciliationService) WebhookInstalled(ctx context.Context) bool {
	hooks, ok, _ := s.reader.Webhooks(ctx)
	return ok && hooks.Installed(s.addr.Domain())
}

// InstallWebhooks registers one callback per configured event. It stops at
// the first rejected call.
func (s *reconciliationService) InstallWebhooks(ctx context.Context) error {
	defer s.clearCache(ctx)

	sendingDomain := s.client.SendingDomain()
	hookURL := s.addr.WebhookURL()
	for _, event := range s.events {
		if err := s.client.CreateWebhook(ctx, sendingDomain, event, hookURL+"?type="+event); err != nil {
			s.log.Debug().Err(err).Str("event", event).Msg("webhook install failed")
			return fmt.Errorf("installing webhook %s: %w", event, err)
		}
	}
	s.log.Info().Str("url", hookURL).Int("events", len(s.events)).Msg("webhooks installed")
	return nil
}

// UninstallWebhooks deletes every callback the provider currently reports.
// The state is read without the cache.
func (s *reconciliationService) UninstallWebhooks(ctx context.Context) error {
	defer s.clearCache(ctx)

	sendingDomain := s.client.SendingDomain()
	state, err := s.client.ListWebhooks(ctx, sendingDomain)
	if err != nil {
		s.log.Debug().Err(err).Msg("webhook listing failed")
		return fmt.Errorf("listing webhooks: %w", err)
	}
	for _, hook := range state.Registered() {
		if err := s.client.DeleteWebhook(ctx, sendingDomain, hook.ID); err != nil {
			s.log.Debug().Err(err).Str("hook", hook.ID).Msg("webhook uninstall failed")
			return fmt.Errorf("deleting webhook %s: %w", hook.ID, err)
		}
	}
	return nil
}

// InstallDomain registers the deployment's domain. Without a resolvable
// domain it does nothing.
func (s *reconciliationService) InstallDomain(ctx context.Context) error {
	defer s.clearCache(ctx)

	name := s.addr.Domain()
	if name == "" {
		return nil
	}
	if err := s.client.CreateDomain(ctx, name); err != nil {
		s.log.Debug().Err(err).Str("domain", name).Msg("domain install failed")
		return fmt.Errorf("creating domain %s: %w", name, err)
	}
	s.log.Info().Str("domain", name).Msg("sending domain installed")
	return nil
}

// UninstallDomain removes the deployment's domain when the provider lists it.
func (s *reconciliationService) UninstallDomain(ctx context.Context) error {
	defer s.clearCache(ctx)

	name := s.addr.Domain()
	domains, ok, err := s.reader.Domains(ctx)
	if !ok {
		if err == nil {
			err = errors.New("domain list unavailable")
		}
		s.log.Debug().Err(err).Msg("domain listing failed")
		return fmt.Errorf("listing domains: %w", err)
	}
	if !domain.DomainRegistered(domains, name) {
		return nil
	}
	if err := s.client.DeleteDomain(ctx, name); err != nil {
		s.log.Debug().Err(err).Str("domain", name).Msg("domain uninstall failed")
		return fmt.Errorf("deleting domain %s: %w", name, err)
	}
	s.log.Info().Str("domain", name).Msg("sending domain removed")
	return nil
}

func (s *reconciliationService) clearCache(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Warn().Err(err).Msg("cache clear failed")
	}
}
