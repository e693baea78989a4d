package domain

import "strings"

// WebhookCategory is one of the seven callback slots the provider reports.
type WebhookCategory string

const (
	HookBounce      WebhookCategory = "bounce"
	HookDeliver     WebhookCategory = "deliver"
	HookDrop        WebhookCategory = "drop"
	HookSpam        WebhookCategory = "spam"
	HookUnsubscribe WebhookCategory = "unsubscribe"
	HookClick       WebhookCategory = "click"
	HookOpen        WebhookCategory = "open"
)

// WebhookCategories in display order.
var WebhookCategories = []WebhookCategory{
	HookBounce, HookDeliver, HookDrop, HookSpam, HookUnsubscribe, HookClick, HookOpen,
}

// webhookAliases maps provider webhook ids, legacy and current, to a category.
var webhookAliases = map[string]WebhookCategory{
	"bounce":         HookBounce,
	"permanent_fail": HookBounce,
	"deliver":        HookDeliver,
	"delivered":      HookDeliver,
	"drop":           HookDrop,
	"temporary_fail": HookDrop,
	"spam":           HookSpam,
	"complained":     HookSpam,
	"unsubscribe":    HookUnsubscribe,
	"unsubscribed":   HookUnsubscribe,
	"click":          HookClick,
	"clicked":        HookClick,
	"open":           HookOpen,
	"opened":         HookOpen,
}

// CategoryForHookID returns the category a provider webhook id belongs to.
func CategoryForHookID(id string) (WebhookCategory, bool) {
	c, ok := webhookAliases[strings.ToLower(id)]
	return c, ok
}

// WebhookHook is one registered callback.
type WebhookHook struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WebhookConfigState holds the registered callback per category.
type WebhookConfigState struct {
	Hooks map[WebhookCategory]WebhookHook `json:"hooks"`
}

// NewWebhookConfigState builds the state from provider webhook ids and URLs.
// Unknown ids are ignored.
func NewWebhookConfigState(urls map[string]string) WebhookConfigState {
	st := WebhookConfigState{Hooks: make(map[WebhookCategory]WebhookHook, len(urls))}
	for id, url := range urls {
		cat, ok := CategoryForHookID(id)
		if !ok {
			continue
		}
		if existing, ok := st.Hooks[cat]; ok && existing.URL != "" {
			continue
		}
		st.Hooks[cat] = WebhookHook{ID: id, URL: url}
	}
	return st
}

// URL returns the callback registered for the category, or "".
func (s WebhookConfigState) URL(c WebhookCategory) string {
	return s.Hooks[c].URL
}

// Installed reports whether any category points at the deployment domain.
func (s WebhookConfigState) Installed(deploymentDomain string) bool {
	if deploymentDomain == "" {
		return false
	}
	for _, c := range WebhookCategories {
		if strings.Contains(s.URL(c), deploymentDomain) {
			return true
		}
	}
	return false
}

// Registered returns the hooks with a non-empty URL in display order.
func (s WebhookConfigState) Registered() []WebhookHook {
	var out []WebhookHook
	for _, c := range WebhookCategories {
		if h, ok := s.Hooks[c]; ok && h.URL != "" {
			out = append(out, h)
		}
	}
	return out
}
