package mailgun

import (
	"encoding/json"
	"fmt"
	"time"

	"mailgun-admin/internal/core/domain"

	mg "github.com/mailgun/mailgun-go/v4"
)

func toSendingDomain(d mg.Domain) domain.SendingDomain {
	out := domain.SendingDomain{Name: d.Name, State: d.State, SMTPLogin: d.SMTPLogin}
	if t := time.Time(d.CreatedAt); !t.IsZero() {
		out.CreatedAt = t.UTC()
	}
	return out
}

func toRecords(in []mg.DNSRecord) []domain.DNSRecord {
	out := make([]domain.DNSRecord, 0, len(in))
	for _, r := range in {
		out = append(out, domain.DNSRecord{
			RecordType: r.RecordType,
			Valid:      r.Valid,
			Name:       r.Name,
			Value:      r.Value,
		})
	}
	return out
}

// eventFields is the part of every SDK event type the dashboard reads.
// The typed events share these JSON names, so one decode covers them all.
type eventFields struct {
	ID        string  `json:"id"`
	Event     string  `json:"event"`
	Severity  string  `json:"severity"`
	Timestamp float64 `json:"timestamp"`
	Recipient string  `json:"recipient"`
	Message   struct {
		Headers domain.MessageHeaders `json:"headers"`
	} `json:"message"`
}

func (e eventFields) toDomain() domain.ProviderEvent {
	return domain.ProviderEvent{
		ID:        e.ID,
		Event:     domain.ResolveFailure(domain.EventType(e.Event), e.Severity),
		Severity:  e.Severity,
		Timestamp: domain.UnixTime(e.Timestamp),
		Recipient: e.Recipient,
		Headers:   e.Message.Headers,
	}
}

func toProviderEvents(page []mg.Event) ([]domain.ProviderEvent, error) {
	out := make([]domain.ProviderEvent, 0, len(page))
	for _, ev := range page {
		raw, err := json.Marshal(ev)
		if err != nil {
			return nil, fmt.Errorf("mailgun: encode %s event: %w", ev.GetName(), err)
		}
		var fields eventFields
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("mailgun: decode %s event: %w", ev.GetName(), err)
		}
		out = append(out, fields.toDomain())
	}
	return out, nil
}
