package service

import (
	"context"
	"errors"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminActionController implements ports.AdminActionController for one page
// session. It owns its gate, independent of the session's payment gate:
// payment initiations and admin actions mutate distinct backend resources
// and must not block each other.
type adminActionController struct {
	gate    ports.Gate
	gateway ports.UpstreamGateway
	log     zerolog.Logger
}

// NewAdminActionController creates an admin controller bound to its own gate.
func NewAdminActionController(gate ports.Gate, gateway ports.UpstreamGateway, log zerolog.Logger) ports.AdminActionController {
	return &adminActionController{gate: gate, gateway: gateway, log: log}
}

// Submit validates the operator's intent and issues at most one privileged
// mutation. On OutcomeApplied the caller refreshes the whole view; on any
// failure the view is kept so the operator can retry without re-entering
// the reason. The gate is released on every exit path.
func (s *adminActionController) Submit(ctx context.Context, operatorID uuid.UUID, req domain.AdminActionRequest, ui ports.ConsoleUI) domain.Outcome {
	req.Normalize()

	if !domain.KnownAdminAction(req.Action) {
		err := apperror.ErrUnknownAction(string(req.Action))
		ui.Notify(ctx, ports.SeverityError, err.Message)
		return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
	}
	if req.Reference == "" {
		err := apperror.Validation("Transaction reference is required")
		ui.Notify(ctx, ports.SeverityError, err.Message)
		return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
	}
	if !req.HasValidReason() {
		err := apperror.ErrReasonRequired()
		ui.Notify(ctx, ports.SeverityError, err.Message)
		return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
	}
	if !req.HasValidAmount() {
		err := apperror.ErrInvalidAmount()
		ui.Notify(ctx, ports.SeverityError, err.Message)
		return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
	}

	if !s.gate.TryAcquire() {
		s.log.Debug().
			Str("action", string(req.Action)).
			Str("reference", req.Reference).
			Msg("duplicate admin submission dropped, gate held")
		return domain.Outcome{Kind: domain.OutcomeDropped}
	}
	defer s.gate.Release()

	if err := s.gateway.SubmitAdminAction(ctx, req); err != nil {
		kind := domain.OutcomeRejected
		if apperror.IsTransport(err) {
			kind = domain.OutcomeTransportFailed
		}
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.TransportFailure(err)
			kind = domain.OutcomeTransportFailed
		}

		s.log.Warn().
			Err(err).
			Str("action", string(req.Action)).
			Str("reference", req.Reference).
			Str("operator_id", operatorID.String()).
			Msg("admin action failed")

		ui.Notify(ctx, ports.SeverityError, appErr.Message)
		return domain.Outcome{Kind: kind, Err: appErr}
	}

	s.log.Info().
		Str("action", string(req.Action)).
		Str("reference", req.Reference).
		Str("operator_id", operatorID.String()).
		Msg("admin action applied")

	ui.Notify(ctx, ports.SeverityInfo, "Action applied")
	return domain.Outcome{Kind: domain.OutcomeApplied}
}
