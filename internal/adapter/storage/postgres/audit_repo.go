package postgres

import (
	"context"
	"fmt"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Create(ctx context.Context, entry *domain.AuditEntry) error {
	query := `INSERT INTO audit_entries (id, operator_id, kind, reference, detail, outcome, session_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.OperatorID, string(entry.Kind), entry.Reference,
		entry.Detail, string(entry.Outcome), entry.SessionID, entry.IPAddress, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
