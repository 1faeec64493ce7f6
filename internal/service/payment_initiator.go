package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/pkg/apperror"

	"github.com/rs/zerolog"
)

// paymentInitiator implements ports.PaymentInitiator for one page session.
// The gate is owned by this instance; acquisition happens synchronously
// before any suspension point, so two overlapping Initiate calls can never
// both reach the upstream gateway.
type paymentInitiator struct {
	gate    ports.Gate
	gateway ports.UpstreamGateway
	log     zerolog.Logger
}

// NewPaymentInitiator creates a payment initiator bound to its own gate.
func NewPaymentInitiator(gate ports.Gate, gateway ports.UpstreamGateway, log zerolog.Logger) ports.PaymentInitiator {
	return &paymentInitiator{gate: gate, gateway: gateway, log: log}
}

// Initiate issues at most one upstream initiation for this click.
//
// On OutcomeRedirected the gate is intentionally not released: the page is
// navigating away to the provider, and the held gate blocks any residual
// duplicate until the session expires. Every other path releases the gate
// and leaves the attempt retryable.
func (s *paymentInitiator) Initiate(ctx context.Context, provider domain.Provider, reference string, supplemental map[string]string, ui ports.ConsoleUI) domain.Outcome {
	if provider == "" || reference == "" {
		err := apperror.ErrMissingIdentifiers()
		ui.Notify(ctx, ports.SeverityError, err.Message)
		return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
	}
	if !domain.KnownProvider(provider) {
		err := apperror.ErrUnknownProvider(string(provider))
		ui.Notify(ctx, ports.SeverityError, err.Message)
		return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
	}

	if !s.gate.TryAcquire() {
		// Harmless duplicate click. Dropped without user-facing noise.
		s.log.Debug().
			Str("provider", string(provider)).
			Str("reference", reference).
			Msg("duplicate initiation dropped, gate held")
		return domain.Outcome{Kind: domain.OutcomeDropped}
	}

	attempt := &domain.PaymentAttempt{
		Provider:     provider,
		Reference:    reference,
		Supplemental: supplemental,
		State:        domain.AttemptLocked,
		StartedAt:    time.Now().UTC(),
	}

	redirected := false
	defer func() {
		if !redirected {
			s.gate.Release()
		}
	}()

	phone := supplementalPhone(supplemental)
	if provider.RequiresPhone() && phone == "" {
		value, ok := ui.RequestInput(ctx, ports.InputSpec{
			Name:  "telephone",
			Label: "Subscriber phone number",
		})
		phone = strings.TrimSpace(value)
		if !ok || phone == "" {
			attempt.State = domain.AttemptFailed
			err := apperror.ErrPhoneRequired()
			ui.Notify(ctx, ports.SeverityError, err.Message)
			return domain.Outcome{Kind: domain.OutcomeRejected, Err: err}
		}
	}

	attempt.State = domain.AttemptAwaitingResponse
	result, err := s.gateway.InitiatePayment(ctx, ports.InitiationRequest{
		Provider:  provider,
		Reference: reference,
		Phone:     phone,
	})
	if err != nil {
		attempt.State = domain.AttemptFailed
		return s.fail(ctx, attempt, err, ui)
	}

	attempt.State = domain.AttemptRedirecting
	redirected = true
	s.log.Info().
		Str("provider", string(provider)).
		Str("reference", reference).
		Msg("payment initiated, handing off to provider")
	return domain.Outcome{Kind: domain.OutcomeRedirected, PaymentURL: result.PaymentURL}
}

// fail rolls the attempt back to a retryable state and surfaces the
// failure. The deferred release in Initiate returns the gate.
func (s *paymentInitiator) fail(ctx context.Context, attempt *domain.PaymentAttempt, err error, ui ports.ConsoleUI) domain.Outcome {
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
		Str("provider", string(attempt.Provider)).
		Str("reference", attempt.Reference).
		Str("outcome", string(kind)).
		Msg("payment initiation failed")

	ui.Notify(ctx, ports.SeverityError, appErr.Message)
	return domain.Outcome{Kind: kind, Err: appErr}
}

// supplementalPhone accepts either key the checkout pages historically used.
func supplementalPhone(supplemental map[string]string) string {
	if supplemental == nil {
		return ""
	}
	if v := strings.TrimSpace(supplemental["telephone"]); v != "" {
		return v
	}
	return strings.TrimSpace(supplemental["phone"])
}
