package integration

import (
	"context"
	"sync"

	"mailgun-admin/internal/core/domain"
)

// --- In-memory AuditRepository ---

type inMemoryAuditRepo struct {
	mu   sync.Mutex
	logs []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *inMemoryAuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditLog, 0, limit)
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

func (r *inMemoryAuditRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

// --- In-memory WebhookPayloadRepository ---

type inMemoryPayloadRepo struct {
	mu      sync.Mutex
	records []domain.WebhookPayloadRecord
}

func newInMemoryPayloadRepo() *inMemoryPayloadRepo {
	return &inMemoryPayloadRepo{}
}

func (r *inMemoryPayloadRepo) Create(ctx context.Context, rec *domain.WebhookPayloadRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *inMemoryPayloadRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- Event recorder registered on the dispatcher ---

type eventRecorder struct {
	mu     sync.Mutex
	events []domain.WebhookEvent
}

func (r *eventRecorder) handle(ctx context.Context, ev domain.WebhookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *eventRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
