package service

import (
	"bytes"
	"encoding/json"

	"mailgun-admin/internal/core/domain"
)

// webhookEnvelope is the provider's callback body.
type webhookEnvelope struct {
	Signature *domain.Signature `json:"signature"`
	EventData json.RawMessage   `json:"event-data"`
}

type eventData struct {
	ID        string  `json:"id"`
	Event     string  `json:"event"`
	Severity  string  `json:"severity"`
	Timestamp float64 `json:"timestamp"`
	Recipient string  `json:"recipient"`
	Message   struct {
		Headers domain.MessageHeaders `json:"headers"`
	} `json:"message"`
}

// ParseWebhookEvents decodes a callback body. The body may be one object or
// an array; each object is either an envelope with "event-data" or a bare
// event-data object. Malformed input yields no events, and malformed array
// elements are dropped.
func ParseWebhookEvents(body []byte) []domain.WebhookEvent {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil
		}
	} else {
		items = []json.RawMessage{body}
	}

	events := make([]domain.WebhookEvent, 0, len(items))
	for _, item := range items {
		if ev, ok := parseWebhookEvent(item); ok {
			events = append(events, ev)
		}
	}
	return events
}

func parseWebhookEvent(raw json.RawMessage) (domain.WebhookEvent, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return domain.WebhookEvent{}, false
	}
	var env webhookEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.WebhookEvent{}, false
	}
	data := raw
	if ed := bytes.TrimSpace(env.EventData); len(ed) > 0 && ed[0] == '{' {
		data = env.EventData
	}

	var ed eventData
	if err := json.Unmarshal(data, &ed); err != nil {
		return domain.WebhookEvent{}, false
	}

	recipient := ed.Recipient
	if recipient == "" {
		recipient = ed.Message.Headers.To
	}
	return domain.WebhookEvent{
		ID:        ed.ID,
		Type:      domain.ResolveFailure(domain.EventType(ed.Event), ed.Severity),
		Timestamp: domain.UnixTime(ed.Timestamp),
		Recipient: recipient,
		MessageID: ed.Message.Headers.MessageID,
		Headers:   ed.Message.Headers,
		Signature: env.Signature,
		Raw:       append(json.RawMessage(nil), data...),
	}, true
}
