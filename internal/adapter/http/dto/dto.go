package dto

import (
	"strings"

	"mailgun-admin/internal/core/domain"
)

// SearchRequest is the query string of the message log.
type SearchRequest struct {
	Begin string `form:"begin" binding:"omitempty,search_date"`
	End   string `form:"end" binding:"omitempty,search_date"`
	From  string `form:"from" binding:"omitempty,max=254"`
	To    string `form:"to" binding:"omitempty,max=254"`
	Limit string `form:"limit" binding:"omitempty,max=6"`
}

// Params converts the request to the raw dashboard params.
func (r SearchRequest) Params() domain.SearchParams {
	return domain.SearchParams{
		Begin: r.Begin,
		End:   r.End,
		From:  r.From,
		To:    r.To,
		Limit: r.Limit,
	}
}

// TestEmailRequest is the body of a test send. Empty fields fall back to the
// configured addresses and a stock message.
type TestEmailRequest struct {
	To      string `json:"to" form:"to" binding:"omitempty,mailbox,max=254" sanitize:"-"`
	Subject string `json:"subject" form:"subject" binding:"omitempty,max=200"`
	Body    string `json:"body" form:"body" binding:"omitempty,max=10000"`
}

const (
	defaultTestSubject = "Mailgun test email"
	defaultTestBody    = "This is a test email sent from the Mailgun admin."
)

// Message builds the outgoing message.
func (r TestEmailRequest) Message() domain.OutgoingMessage {
	msg := domain.OutgoingMessage{
		Subject: r.Subject,
		Text:    r.Body,
		Tags:    []string{"test"},
	}
	if msg.Subject == "" {
		msg.Subject = defaultTestSubject
	}
	if msg.Text == "" {
		msg.Text = defaultTestBody
	}
	if to := strings.TrimSpace(r.To); to != "" {
		msg.To = []string{to}
	}
	return msg
}

// TestEmailResponse is returned after a successful test send.
type TestEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// AuditListRequest is the query string of the audit trail.
type AuditListRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// WebhookTestResponse summarises a fixture replay.
type WebhookTestResponse struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}
