package domain

import (
	"strings"
	"time"
)

// ProviderEvent is an event record returned by the provider's events API.
type ProviderEvent struct {
	ID        string         `json:"id"`
	Event     EventType      `json:"event"`
	Severity  string         `json:"severity,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Recipient string         `json:"recipient"`
	Headers   MessageHeaders `json:"headers"`
}

// MessageSummary is one dashboard row.
type MessageSummary struct {
	ShortID   string    `json:"event_id"`
	MessageID string    `json:"message_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Sender    string    `json:"sender"`
}

// MessageListStatus distinguishes the three dashboard outcomes.
type MessageListStatus string

const (
	MessageListOK    MessageListStatus = "ok"
	MessageListError MessageListStatus = "error"
	MessageListEmpty MessageListStatus = "empty"
)

// NoMessagesNotice is shown when the provider returned zero events.
const NoMessagesNotice = "No messages"

type MessageList struct {
	Status MessageListStatus `json:"status"`
	Notice string            `json:"notice,omitempty"`
	Items  []MessageSummary  `json:"items"`
}

// ShortID returns the part of a message-id before its first "@".
func ShortID(messageID string) string {
	if i := strings.IndexByte(messageID, '@'); i >= 0 {
		return messageID[:i]
	}
	return messageID
}

// SummarizeEvents projects provider events into dashboard rows. Events whose
// headers lack a recipient borrow the headers of a sibling event in the same
// batch sharing the message-id.
func SummarizeEvents(events []ProviderEvent) []MessageSummary {
	withHeaders := make(map[string]MessageHeaders, len(events))
	for _, ev := range events {
		if ev.Headers.To != "" {
			withHeaders[ev.Headers.MessageID] = ev.Headers
		}
	}

	out := make([]MessageSummary, 0, len(events))
	for _, ev := range events {
		headers := ev.Headers
		if headers.To == "" {
			headers = withHeaders[ev.Headers.MessageID]
		}
		out = append(out, MessageSummary{
			ShortID:   ShortID(ev.Headers.MessageID),
			MessageID: ev.Headers.MessageID,
			Timestamp: ev.Timestamp,
			Type:      ev.Event,
			Recipient: headers.To,
			Subject:   headers.Subject,
			Sender:    headers.From,
		})
	}
	return out
}
