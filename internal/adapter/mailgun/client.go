package mailgun

import (
	"context"
	"net/http"
	"strings"
	"time"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"
	"mailgun-admin/pkg/apperror"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "mailgun-admin/mailgun"

	// domainPageSize is the largest page the domains endpoint serves.
	domainPageSize = 1000
)

// Client implements ports.MailgunClient over the provider SDK. The SDK binds
// a client to one domain, so a bound client is built per call; they share
// one http.Client.
type Client struct {
	baseURL    string
	apiKey     string
	domain     string
	debug      bool
	httpClient *http.Client
	tracer     trace.Tracer
	log        zerolog.Logger
}

// NewClient creates a provider client. A nil httpClient gets a default
// client with the configured timeout.
func NewClient(cfg config.MailgunConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    cfg.BaseURL(),
		apiKey:     cfg.APIKey,
		domain:     cfg.Domain,
		debug:      cfg.Debug,
		httpClient: httpClient,
		tracer:     otel.Tracer(tracerName),
		log:        log.With().Str("component", "mailgun").Logger(),
	}
}

// SendingDomain returns the configured default sending domain.
func (c *Client) SendingDomain() string {
	return c.domain
}

// bound returns an SDK client scoped to domainName.
func (c *Client) bound(domainName string) *mg.MailgunImpl {
	api := mg.NewMailgun(domainName, c.apiKey)
	api.SetAPIBase(c.baseURL)
	api.SetClient(c.httpClient)
	return api
}

// ListDomains returns every domain on the account.
func (c *Client) ListDomains(ctx context.Context) ([]domain.SendingDomain, error) {
	if c.apiKey == "" {
		return nil, apperror.ErrMissingAPIKey()
	}
	var page []mg.Domain
	err := c.call(ctx, "domains.index", "", func(ctx context.Context) error {
		it := c.bound(c.domain).ListDomains(&mg.ListOptions{Limit: domainPageSize})
		if !it.Next(ctx, &page) {
			return it.Err()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.SendingDomain, 0, len(page))
	for _, d := range page {
		out = append(out, toSendingDomain(d))
	}
	return out, nil
}

// ShowDomain returns one domain with its DNS records.
func (c *Client) ShowDomain(ctx context.Context, name string) (*domain.DomainDetail, error) {
	if err := c.requireDomain(name); err != nil {
		return nil, err
	}
	var resp mg.DomainResponse
	err := c.call(ctx, "domains.show", name, func(ctx context.Context) (err error) {
		resp, err = c.bound(name).GetDomain(ctx, name)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &domain.DomainDetail{
		Domain:              toSendingDomain(resp.Domain),
		SendingDNSRecords:   toRecords(resp.SendingDNSRecords),
		ReceivingDNSRecords: toRecords(resp.ReceivingDNSRecords),
	}, nil
}

// CreateDomain registers a sending domain with the provider defaults.
func (c *Client) CreateDomain(ctx context.Context, name string) error {
	if err := c.requireDomain(name); err != nil {
		return err
	}
	return c.call(ctx, "domains.create", name, func(ctx context.Context) error {
		_, err := c.bound(name).CreateDomain(ctx, name, nil)
		return err
	})
}

// DeleteDomain removes a sending domain.
func (c *Client) DeleteDomain(ctx context.Context, name string) error {
	if err := c.requireDomain(name); err != nil {
		return err
	}
	return c.call(ctx, "domains.delete", name, func(ctx context.Context) error {
		return c.bound(name).DeleteDomain(ctx, name)
	})
}

// ListWebhooks returns the callbacks registered for a domain. When the
// provider reports several URLs for one id the first one wins.
func (c *Client) ListWebhooks(ctx context.Context, domainName string) (domain.WebhookConfigState, error) {
	if err := c.requireDomain(domainName); err != nil {
		return domain.WebhookConfigState{}, err
	}
	var hooks map[string][]string
	err := c.call(ctx, "webhooks.index", domainName, func(ctx context.Context) (err error) {
		hooks, err = c.bound(domainName).ListWebhooks(ctx)
		return err
	})
	if err != nil {
		return domain.WebhookConfigState{}, err
	}
	urls := make(map[string]string, len(hooks))
	for id, list := range hooks {
		if len(list) > 0 {
			urls[id] = list[0]
		}
	}
	return domain.NewWebhookConfigState(urls), nil
}

// CreateWebhook registers a callback URL for a webhook id.
func (c *Client) CreateWebhook(ctx context.Context, domainName, id, hookURL string) error {
	if err := c.requireDomain(domainName); err != nil {
		return err
	}
	return c.call(ctx, "webhooks.create", domainName, func(ctx context.Context) error {
		return c.bound(domainName).CreateWebhook(ctx, id, []string{hookURL})
	})
}

// DeleteWebhook removes the callback registered under id.
func (c *Client) DeleteWebhook(ctx context.Context, domainName, id string) error {
	if err := c.requireDomain(domainName); err != nil {
		return err
	}
	return c.call(ctx, "webhooks.delete", domainName, func(ctx context.Context) error {
		return c.bound(domainName).DeleteWebhook(ctx, id)
	})
}

// ListEvents returns the first page of events matching filter. Zero-valued
// filter fields are not sent.
func (c *Client) ListEvents(ctx context.Context, domainName string, filter domain.EventFilter) ([]domain.ProviderEvent, error) {
	if err := c.requireDomain(domainName); err != nil {
		return nil, err
	}
	var page []mg.Event
	err := c.call(ctx, "events.get", domainName, func(ctx context.Context) error {
		it := c.bound(domainName).ListEvents(eventOptions(filter))
		if !it.Next(ctx, &page) {
			return it.Err()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProviderEvents(page)
}

func eventOptions(f domain.EventFilter) *mg.ListEventOptions {
	opts := &mg.ListEventOptions{Limit: f.Limit}
	if f.Begin > 0 {
		opts.Begin = time.Unix(f.Begin, 0).UTC()
	}
	if f.End > 0 {
		opts.End = time.Unix(f.End, 0).UTC()
	}
	filter := map[string]string{}
	if f.From != "" {
		filter["from"] = f.From
	}
	if f.To != "" {
		filter["to"] = f.To
	}
	if len(filter) > 0 {
		opts.Filter = filter
	}
	return opts
}

// SendMessage queues a message for delivery.
func (c *Client) SendMessage(ctx context.Context, domainName string, msg domain.OutgoingMessage) (*domain.SendResult, error) {
	if err := c.requireDomain(domainName); err != nil {
		return nil, err
	}
	api := c.bound(domainName)
	message := api.NewMessage(msg.From, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if len(msg.Tags) > 0 {
		if err := message.AddTag(msg.Tags...); err != nil {
			return nil, apperror.Validation(err.Error())
		}
	}

	var status, id string
	err := c.call(ctx, "messages.send", domainName, func(ctx context.Context) (err error) {
		status, id, err = api.Send(ctx, message)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &domain.SendResult{ID: id, Message: status}, nil
}

func (c *Client) requireDomain(name string) error {
	if c.apiKey == "" {
		return apperror.ErrMissingAPIKey()
	}
	if strings.TrimSpace(name) == "" {
		return apperror.ErrMissingDomain()
	}
	return nil
}

// call runs one SDK request inside a client span and maps its error.
func (c *Client) call(ctx context.Context, op, domainName string, fn func(ctx context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, "mailgun."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if c.debug {
		c.log.Debug().Str("op", op).Str("domain", domainName).Str("base", c.baseURL).Msg("mailgun request")
	}
	start := time.Now()
	err := translate(op, fn(ctx))
	if c.debug {
		c.log.Debug().Str("op", op).Dur("took", time.Since(start)).Err(err).Msg("mailgun response")
	}

	if err != nil {
		span.SetAttributes(statusAttr(err)...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
