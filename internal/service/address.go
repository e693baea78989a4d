package service

import (
	"net/url"
	"strings"

	"mailgun-admin/config"
	"mailgun-admin/internal/core/domain"
)

// WebhookPath is where the provider delivers event callbacks.
const WebhookPath = "/__mailgun/incoming"

// AddressResolver derives the deployment's mail domain and public URLs from
// configuration.
type AddressResolver struct {
	site    config.SiteConfig
	webhook config.WebhookConfig
	live    bool
}

// NewAddressResolver creates a resolver.
func NewAddressResolver(site config.SiteConfig, webhook config.WebhookConfig, server config.ServerConfig) *AddressResolver {
	return &AddressResolver{site: site, webhook: webhook, live: server.IsProduction()}
}

// ConfiguredFrom returns the configured sender: the from email, then the
// admin email. It is "" when neither is a valid address.
func (a *AddressResolver) ConfiguredFrom() string {
	for _, candidate := range []string{a.site.FromEmail, a.site.AdminEmail} {
		if domain.EmailAddress(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// DefaultFrom returns ConfiguredFrom, or postmaster at the base URL host.
func (a *AddressResolver) DefaultFrom() string {
	if from := a.ConfiguredFrom(); from != "" {
		return from
	}
	if host := a.hostDomain(); host != "" {
		return "postmaster@" + host
	}
	return ""
}

// DefaultTo returns the admin email, or "".
func (a *AddressResolver) DefaultTo() string {
	if domain.EmailAddress(a.site.AdminEmail) != "" {
		return a.site.AdminEmail
	}
	return ""
}

// Domain returns the deployment's mail domain: the domain of the configured
// sender, else the base URL host without a leading "www.".
func (a *AddressResolver) Domain() string {
	if d := domain.EmailDomain(a.ConfiguredFrom()); d != "" {
		return d
	}
	return a.hostDomain()
}

func (a *AddressResolver) hostDomain() string {
	u, err := url.Parse(strings.TrimSpace(a.site.BaseURL))
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

// WebhookURL returns the callback URL to register with the provider.
func (a *AddressResolver) WebhookURL() string {
	if base := strings.TrimRight(a.webhook.BaseURL, "/"); base != "" {
		return base + WebhookPath
	}
	if a.live {
		return strings.TrimRight(a.site.BaseURL, "/") + WebhookPath
	}
	scheme := "http"
	if u, err := url.Parse(a.site.BaseURL); err == nil && u.Scheme != "" {
		scheme = u.Scheme
	}
	return scheme + "://" + a.Domain() + WebhookPath
}

// InboundURL returns the inbound mail host, or "" without a domain.
func (a *AddressResolver) InboundURL() string {
	d := a.Domain()
	if d == "" {
		return ""
	}
	return a.webhook.InboundSubdomain + "." + d
}
