package domain

import (
	"encoding/json"
	"time"
)

// EventType is the provider's name for a delivery event.
type EventType string

const (
	EventClicked       EventType = "clicked"
	EventComplained    EventType = "complained"
	EventDelivered     EventType = "delivered"
	EventOpened        EventType = "opened"
	EventPermanentFail EventType = "permanent_fail"
	EventTemporaryFail EventType = "temporary_fail"
	EventUnsubscribed  EventType = "unsubscribed"

	// EventFailed is reported by the events API and by webhooks; its severity
	// decides between permanent_fail and temporary_fail.
	EventFailed EventType = "failed"
)

// EventCategory groups event types for handler dispatch.
type EventCategory string

const (
	CategoryEngagement  EventCategory = "engagement"
	CategoryGeneration  EventCategory = "generation"
	CategoryMessage     EventCategory = "message"
	CategoryUnsubscribe EventCategory = "unsubscribe"
)

// Category returns the handler category for the event type, or "" when the
// type is not one the dispatcher knows.
func (t EventType) Category() EventCategory {
	switch t {
	case EventOpened, EventClicked:
		return CategoryEngagement
	case EventDelivered:
		return CategoryGeneration
	case EventComplained, EventPermanentFail, EventTemporaryFail:
		return CategoryMessage
	case EventUnsubscribed:
		return CategoryUnsubscribe
	}
	return ""
}

// ResolveFailure maps a generic "failed" event to its severity-specific type.
func ResolveFailure(t EventType, severity string) EventType {
	if t != EventFailed {
		return t
	}
	if severity == "temporary" {
		return EventTemporaryFail
	}
	return EventPermanentFail
}

// MessageHeaders is the header bag the provider attaches to events.
type MessageHeaders struct {
	To        string `json:"to,omitempty"`
	From      string `json:"from,omitempty"`
	Subject   string `json:"subject,omitempty"`
	MessageID string `json:"message-id,omitempty"`
}

// Signature carries the provider's webhook signing fields.
type Signature struct {
	Timestamp string `json:"timestamp"`
	Token     string `json:"token"`
	Signature string `json:"signature"`
}

// WebhookEvent is one inbound notification, consumed once during dispatch.
type WebhookEvent struct {
	ID        string          `json:"id,omitempty"`
	Type      EventType       `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Recipient string          `json:"recipient"`
	MessageID string          `json:"message_id"`
	Headers   MessageHeaders  `json:"headers"`
	Signature *Signature      `json:"signature,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// BatchResult counts the outcome of dispatching one inbound payload.
type BatchResult struct {
	BatchID   string
	Processed int
	Skipped   int
	Rejected  int
	Err       error
}

// UnixTime converts the provider's fractional epoch seconds.
func UnixTime(seconds float64) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec).UTC()
}
