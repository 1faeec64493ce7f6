package handler

import (
	"context"

	"momo-checkout-console/internal/core/ports"

	"github.com/rs/zerolog"
)

// httpUI adapts the request/response cycle to the core's console
// capability. There is no interactive channel mid-request, so input
// requests report not-ok; the page collects supplemental values up
// front and sends them with the request. Notifications already ride
// back on the outcome, so they are only logged here.
type httpUI struct {
	log zerolog.Logger
}

func (u httpUI) RequestInput(ctx context.Context, spec ports.InputSpec) (string, bool) {
	u.log.Debug().Str("input", spec.Name).Msg("supplemental input not available over http")
	return "", false
}

func (u httpUI) Notify(ctx context.Context, severity ports.Severity, message string) {
	u.log.Debug().Str("severity", string(severity)).Msg(message)
}
