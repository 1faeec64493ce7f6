package ports

import (
	"context"
	"time"

	"momo-checkout-console/internal/core/domain"

	"github.com/google/uuid"
)

// OperatorRepository persists console operators.
type OperatorRepository interface {
	Create(ctx context.Context, op *domain.Operator) error
	GetByUsername(ctx context.Context, username string) (*domain.Operator, error) // nil, nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	TouchLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// AuditRepository persists the console-side audit trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
}

// StatsCache shares the latest stats snapshot across console instances.
type StatsCache interface {
	Get(ctx context.Context) (*domain.StatsSnapshot, error) // nil, nil when absent
	Set(ctx context.Context, snap *domain.StatsSnapshot, ttl time.Duration) error
}
