package service

import (
	"context"
	"time"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"
	"mailgun-admin/internal/core/ports"

	"github.com/rs/zerolog"
)

// cachedFailureNotice is shown when a failure was served from the cache.
const cachedFailureNotice = "The provider request failed recently. Refresh to try again."

type dashboardService struct {
	reader *ProviderReader
	cache  *CacheGateway
	addr   *AddressResolver
	recon  ports.ReconciliationService
	admin  config.AdminConfig
	now    func() time.Time
	log    zerolog.Logger
}

// NewDashboardService creates the read side of the admin API. recon answers
// whether the registered webhooks point at this deployment.
func NewDashboardService(
	reader *ProviderReader,
	cache *CacheGateway,
	addr *AddressResolver,
	recon ports.ReconciliationService,
	admin config.AdminConfig,
	log zerolog.Logger,
) ports.DashboardService {
	return &dashboardService{
		reader: reader,
		cache:  cache,
		addr:   addr,
		recon:  recon,
		admin:  admin,
		now:    time.Now,
		log:    log.With().Str("component", "dashboard").Logger(),
	}
}

// Messages lists recent provider events as dashboard rows.
func (s *dashboardService) Messages(ctx context.Context, params domain.SearchParams) domain.MessageList {
	params = params.WithDefaults(s.admin.DefaultSearchParams)
	// Minute resolution keeps open-ended searches on one cache entry.
	filter := params.Filter(s.admin.DisabledSearchFilters, s.now().Truncate(time.Minute))

	events, ok, err := s.reader.Events(ctx, filter)
	if !ok {
		return domain.MessageList{
			Status: domain.MessageListError,
			Notice: failureNotice(err),
			Items:  []domain.MessageSummary{},
		}
	}
	if len(events) == 0 {
		return domain.MessageList{
			Status: domain.MessageListEmpty,
			Notice: domain.NoMessagesNotice,
			Items:  []domain.MessageSummary{},
		}
	}
	return domain.MessageList{
		Status: domain.MessageListOK,
		Items:  domain.SummarizeEvents(events),
	}
}

// SearchFields describes the search form.
func (s *dashboardService) SearchFields(params domain.SearchParams) []domain.SearchField {
	return domain.SearchFields(params.WithDefaults(s.admin.DefaultSearchParams), s.admin.DisabledSearchFilters)
}

// Settings combines the domain and webhook tabs.
func (s *dashboardService) Settings(ctx context.Context) ports.Settings {
	name := s.addr.Domain()
	out := ports.Settings{
		Domain:     name,
		Domains:    []domain.SendingDomainStatus{},
		WebhookURL: s.addr.WebhookURL(),
		InboundURL: s.addr.InboundURL(),
	}

	hooks, ok, err := s.reader.Webhooks(ctx)
	if ok {
		out.Webhooks = hooks
		out.WebhookInstalled = s.recon.WebhookInstalled(ctx)
	} else {
		out.Notice = failureNotice(err)
	}

	domains, ok, err := s.reader.Domains(ctx)
	if !ok {
		if out.Notice == "" {
			out.Notice = failureNotice(err)
		}
		return out
	}

	for _, d := range domains {
		status := domain.SendingDomainStatus{Name: d.Name, Registered: true, State: d.State, Verified: d.State == "active"}
		if detail, ok, _ := s.reader.Domain(ctx, d.Name); ok && detail != nil {
			status = domain.StatusFromDetail(*detail)
		}
		out.Domains = append(out.Domains, status)
		if name != "" && status.Name == name {
			own := status
			out.DomainStatus = &own
		}
	}
	if out.DomainStatus == nil && name != "" {
		out.DomainStatus = &domain.SendingDomainStatus{Name: name}
	}
	return out
}

// ClearCache drops every cached provider read.
func (s *dashboardService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

func failureNotice(err error) string {
	if err != nil {
		return err.Error()
	}
	return cachedFailureNotice
}
