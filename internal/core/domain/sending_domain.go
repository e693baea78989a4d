package domain

import (
	"strings"
	"time"
)

// DNSRecord is a DNS entry the provider asks the domain owner to publish.
type DNSRecord struct {
	RecordType string `json:"record_type"`
	Valid      string `json:"valid"`
	Name       string `json:"name"`
	Value      string `json:"value"`
}

// IsValid reports whether the provider confirmed the record.
func (r DNSRecord) IsValid() bool {
	return r.Valid == "valid"
}

// SendingDomain is a domain as listed by the provider.
type SendingDomain struct {
	Name      string    `json:"name"`
	State     string    `json:"state"`
	SMTPLogin string    `json:"smtp_login,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DomainDetail is the provider's view of one domain with its DNS records.
type DomainDetail struct {
	Domain              SendingDomain `json:"domain"`
	SendingDNSRecords   []DNSRecord   `json:"sending_dns_records"`
	ReceivingDNSRecords []DNSRecord   `json:"receiving_dns_records"`
}

// SendingDomainStatus summarizes registration and DNS authentication state.
type SendingDomainStatus struct {
	Name       string      `json:"name"`
	Registered bool        `json:"registered"`
	State      string      `json:"state,omitempty"`
	Verified   bool        `json:"verified"`
	SPFValid   bool        `json:"spf_valid"`
	DKIMValid  bool        `json:"dkim_valid"`
	Records    []DNSRecord `json:"records,omitempty"`
}

// DomainRegistered reports whether name appears in the listed domains.
func DomainRegistered(domains []SendingDomain, name string) bool {
	if name == "" {
		return false
	}
	for _, d := range domains {
		if strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

// StatusFromDetail derives verification and SPF/DKIM validity from the
// sending DNS records.
func StatusFromDetail(detail DomainDetail) SendingDomainStatus {
	st := SendingDomainStatus{
		Name:       detail.Domain.Name,
		Registered: true,
		State:      detail.Domain.State,
		Verified:   detail.Domain.State == "active",
		Records:    detail.SendingDNSRecords,
	}
	for _, rec := range detail.SendingDNSRecords {
		if !rec.IsValid() {
			continue
		}
		if strings.Contains(rec.Value, "v=spf1") {
			st.SPFValid = true
		}
		if strings.Contains(rec.Value, "k=rsa") {
			st.DKIMValid = true
		}
	}
	return st
}
