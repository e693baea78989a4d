package domain

import (
	"net/mail"
	"strings"
)

// OutgoingMessage is an email handed to the provider for delivery.
type OutgoingMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// SendResult is the provider's acknowledgement of a queued message.
type SendResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// EmailAddress extracts the bare address from an RFC 5322 value such as
// `"Some Name" <some@example.com>`. Invalid input yields "".
func EmailAddress(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return ""
	}
	return addr.Address
}

// EmailDomain returns the domain part of an email address, or "".
func EmailDomain(value string) string {
	addr := EmailAddress(value)
	i := strings.LastIndexByte(addr, '@')
	if i < 0 {
		return ""
	}
	return strings.ToLower(addr[i+1:])
}
