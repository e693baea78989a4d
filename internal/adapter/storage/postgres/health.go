package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const auditCheckTimeout = 2 * time.Second

// ErrAuditSchemaMissing means the pool answers but the audit tables were
// never migrated.
var ErrAuditSchemaMissing = errors.New("admin_audit_logs table is missing")

// AuditStoreHealth checks that the audit database is reachable and migrated.
type AuditStoreHealth struct {
	pool Pool
}

func NewAuditStoreHealth(pool Pool) *AuditStoreHealth {
	return &AuditStoreHealth{pool: pool}
}

func (h *AuditStoreHealth) Name() string { return "postgresql" }

func (h *AuditStoreHealth) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, auditCheckTimeout)
	defer cancel()

	var present bool
	if err := h.pool.QueryRow(ctx, "SELECT to_regclass('admin_audit_logs') IS NOT NULL").Scan(&present); err != nil {
		return fmt.Errorf("audit store unreachable: %w", err)
	}
	if !present {
		return ErrAuditSchemaMissing
	}
	return nil
}
