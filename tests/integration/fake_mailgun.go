package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

// fakeMailgun serves the subset of the provider API the admin uses and
// keeps the resulting state in memory.
type fakeMailgun struct {
	mu          sync.Mutex
	domains     map[string]bool
	webhooks    map[string]string
	events      []map[string]any
	sent        []map[string][]string
	eventsCalls int
}

func newFakeMailgun() *fakeMailgun {
	return &fakeMailgun{
		domains:  map[string]bool{"mg.example.org": true},
		webhooks: map[string]string{},
	}
}

func (f *fakeMailgun) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if user, pass, ok := r.BasicAuth(); !ok || user != "api" || pass != "key-test" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid private key"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	parts := apiPath(r.URL.Path)
	switch {
	case len(parts) == 1 && parts[0] == "domains" && r.Method == http.MethodGet:
		items := []map[string]any{}
		for name := range f.domains {
			items = append(items, map[string]any{"name": name, "state": "active"})
		}
		writeJSON(w, http.StatusOK, map[string]any{"total_count": len(items), "items": items})

	case len(parts) == 1 && parts[0] == "domains" && r.Method == http.MethodPost:
		name := r.FormValue("name")
		f.domains[name] = true
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Domain has been created",
			"domain":  map[string]any{"name": name, "state": "unverified"},
		})

	case len(parts) == 2 && parts[0] == "domains" && r.Method == http.MethodGet:
		if !f.domains[parts[1]] {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Domain not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"domain": map[string]any{"name": parts[1], "state": "active"},
			"sending_dns_records": []map[string]any{
				{"record_type": "TXT", "valid": "valid", "name": parts[1], "value": "v=spf1 include:mailgun.org ~all"},
			},
		})

	case len(parts) == 2 && parts[0] == "domains" && r.Method == http.MethodDelete:
		delete(f.domains, parts[1])
		writeJSON(w, http.StatusOK, map[string]any{"message": "Domain has been deleted"})

	case len(parts) == 3 && parts[0] == "domains" && parts[2] == "webhooks" && r.Method == http.MethodGet:
		hooks := map[string]any{}
		for id, url := range f.webhooks {
			hooks[id] = map[string]any{"urls": []string{url}}
		}
		writeJSON(w, http.StatusOK, map[string]any{"webhooks": hooks})

	case len(parts) == 3 && parts[0] == "domains" && parts[2] == "webhooks" && r.Method == http.MethodPost:
		f.webhooks[r.FormValue("id")] = r.FormValue("url")
		writeJSON(w, http.StatusOK, map[string]any{"message": "Webhook has been created"})

	case len(parts) == 4 && parts[0] == "domains" && parts[2] == "webhooks" && r.Method == http.MethodDelete:
		delete(f.webhooks, parts[3])
		writeJSON(w, http.StatusOK, map[string]any{"message": "Webhook has been deleted"})

	case len(parts) == 2 && parts[1] == "events" && r.Method == http.MethodGet:
		f.eventsCalls++
		writeJSON(w, http.StatusOK, map[string]any{
			"items":  f.events,
			"paging": map[string]any{"next": "", "previous": ""},
		})

	case len(parts) == 2 && parts[1] == "messages" && r.Method == http.MethodPost:
		_ = r.ParseMultipartForm(1 << 20)
		f.sent = append(f.sent, r.PostForm)
		writeJSON(w, http.StatusOK, map[string]any{"id": "<20240101000000.1@mg.example.org>", "message": "Queued. Thank you."})

	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "not found"})
	}
}

// apiPath splits the request path with the API version segments removed.
func apiPath(p string) []string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for len(parts) > 0 && isAPIVersion(parts[0]) {
		parts = parts[1:]
	}
	return parts
}

func isAPIVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (f *fakeMailgun) webhookCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.webhooks)
}

func (f *fakeMailgun) webhookURL(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.webhooks[id]
}

func (f *fakeMailgun) hasDomain(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.domains[name]
}

func (f *fakeMailgun) eventCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.eventsCalls
}

func (f *fakeMailgun) sentMessages() []map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string][]string(nil), f.sent...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
