package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultSearchLimit is used when the requested page size is not allowed.
const DefaultSearchLimit = 100

// SearchLimits are the page sizes the dashboard offers.
var SearchLimits = []int{100, 200, 300}

// SearchParams are the raw dashboard search inputs, as typed by the user.
type SearchParams struct {
	Begin string `form:"begin" json:"begin,omitempty"`
	End   string `form:"end" json:"end,omitempty"`
	From  string `form:"from" json:"from,omitempty"`
	To    string `form:"to" json:"to,omitempty"`
	Limit string `form:"limit" json:"limit,omitempty"`
}

// Get returns a parameter by its form name.
func (p SearchParams) Get(name string) string {
	switch name {
	case "begin":
		return p.Begin
	case "end":
		return p.End
	case "from":
		return p.From
	case "to":
		return p.To
	case "limit":
		return p.Limit
	}
	return ""
}

// WithDefaults fills empty fields from the configured defaults.
func (p SearchParams) WithDefaults(defaults map[string]string) SearchParams {
	pick := func(v, name string) string {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(defaults[name])
	}
	return SearchParams{
		Begin: pick(p.Begin, "begin"),
		End:   pick(p.End, "end"),
		From:  pick(p.From, "from"),
		To:    pick(p.To, "to"),
		Limit: pick(p.Limit, "limit"),
	}
}

// EventFilter is the resolved filter sent to the provider's events API.
// Zero values mean "not set" and are never sent.
type EventFilter struct {
	Begin int64  `json:"begin,omitempty"`
	End   int64  `json:"end,omitempty"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
	Limit int    `json:"limit"`
}

// Filter resolves the raw params. Dates become unix seconds, an end bound
// defaults to now when only begin is given, disabled filters are dropped and
// the limit is clamped to SearchLimits.
func (p SearchParams) Filter(disabled []string, now time.Time) EventFilter {
	f := EventFilter{Limit: DefaultSearchLimit}

	if ts, ok := ParseSearchDate(p.Begin); ok {
		f.Begin = ts
		f.End = now.Unix()
	}
	if ts, ok := ParseSearchDate(p.End); ok {
		f.End = ts
	}
	if !slices.Contains(disabled, "from") {
		f.From = p.From
	}
	if !slices.Contains(disabled, "to") {
		f.To = p.To
	}
	if n, err := strconv.Atoi(p.Limit); err == nil && slices.Contains(SearchLimits, n) {
		f.Limit = n
	}
	return f
}

// CacheParams returns the ordered parameters identifying this filter.
func (f EventFilter) CacheParams() []any {
	return []any{f.Begin, f.End, f.From, f.To, f.Limit}
}

var searchDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseSearchDate accepts unix seconds or a calendar date. Slashes are
// accepted in place of dashes.
func ParseSearchDate(v string) (int64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, n > 0
	}
	v = strings.ReplaceAll(v, "/", "-")
	for _, layout := range searchDateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

// SearchField describes one dashboard filter input.
type SearchField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Value       string   `json:"value,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// SearchFields lists the filter inputs, omitting disabled ones.
func SearchFields(current SearchParams, disabled []string) []SearchField {
	fields := []SearchField{
		{Name: "begin", Label: "From", Type: "date", Value: current.Begin},
		{Name: "end", Label: "To", Type: "date", Value: current.End},
	}
	if !slices.Contains(disabled, "from") {
		fields = append(fields, SearchField{
			Name: "from", Label: "Sender", Type: "text", Value: current.From,
			Placeholder: "sender@mail.example.com,other@example.com",
		})
	}
	if !slices.Contains(disabled, "to") {
		fields = append(fields, SearchField{
			Name: "to", Label: "Recipients", Type: "text", Value: current.To,
			Placeholder: "recipient@example.com,other@example.com",
		})
	}

	limit := current.Limit
	if limit == "" {
		limit = strconv.Itoa(DefaultSearchLimit)
	}
	opts := make([]string, 0, len(SearchLimits))
	for _, n := range SearchLimits {
		opts = append(opts, strconv.Itoa(n))
	}
	fields = append(fields, SearchField{
		Name: "limit", Label: "Number of results", Type: "select", Value: limit, Options: opts,
	})
	return fields
}
