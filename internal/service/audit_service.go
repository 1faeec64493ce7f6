package service

import (
	"context"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"

	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
// If repo is nil, entries are only written to the logger.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record logs an audit entry asynchronously (fire-and-forget). Audit
// persistence must never block or fail the audited operation.
func (s *auditService) Record(ctx context.Context, entry *domain.AuditEntry) {
	go func() {
		s.log.Info().
			Str("kind", string(entry.Kind)).
			Str("reference", entry.Reference).
			Str("detail", entry.Detail).
			Str("outcome", string(entry.Outcome)).
			Str("session_id", entry.SessionID).
			Str("ip", entry.IPAddress).
			Msg("audit")

		if s.repo != nil {
			if err := s.repo.Create(context.Background(), entry); err != nil {
				s.log.Warn().Err(err).Str("kind", string(entry.Kind)).Msg("failed to persist audit entry")
			}
		}
	}()
}
