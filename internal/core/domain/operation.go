package domain

// Operation is a cacheable read against the provider.
type Operation string

const (
	OpDomainsIndex  Operation = "domains.index"
	OpDomainsShow   Operation = "domains.show"
	OpWebhooksIndex Operation = "webhooks.index"
	OpEventsGet     Operation = "events.get"
)
