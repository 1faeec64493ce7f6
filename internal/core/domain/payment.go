package domain

import "time"

// Provider identifies an external mobile-money service the customer is
// redirected to.
type Provider string

const (
	ProviderOrange Provider = "orange"
	ProviderWave   Provider = "wave"
)

// KnownProvider reports whether p is a provider this console can initiate.
func KnownProvider(p Provider) bool {
	return p == ProviderOrange || p == ProviderWave
}

// RequiresPhone reports whether initiation needs the subscriber's phone
// number in the payload. Orange Money requires it; Wave collects the number
// on its own hosted page.
func (p Provider) RequiresPhone() bool {
	return p == ProviderOrange
}

// AttemptState is the lifecycle state of a payment attempt.
type AttemptState string

const (
	AttemptIdle             AttemptState = "IDLE"
	AttemptLocked           AttemptState = "LOCKED"
	AttemptAwaitingResponse AttemptState = "AWAITING_RESPONSE"
	AttemptRedirecting      AttemptState = "REDIRECTING"
	AttemptFailed           AttemptState = "FAILED"
)

// PaymentAttempt is one customer-initiated payment, page-lifetime only.
// The reference is a server-issued opaque key and is never parsed.
type PaymentAttempt struct {
	Provider     Provider
	Reference    string
	Supplemental map[string]string // e.g. subscriber phone number
	State        AttemptState
	StartedAt    time.Time
}

// OutcomeKind classifies how a privileged operation ended.
type OutcomeKind string

const (
	// OutcomeRedirected: initiation succeeded, the customer is handed off
	// to the provider. The payment gate stays held: the page is navigating
	// away and nothing may fire a second request behind it.
	OutcomeRedirected OutcomeKind = "REDIRECTED"
	// OutcomeApplied: admin action accepted by the backend.
	OutcomeApplied OutcomeKind = "APPLIED"
	// OutcomeRejected: declined before or by the backend; retryable.
	OutcomeRejected OutcomeKind = "REJECTED"
	// OutcomeTransportFailed: network error, timeout, or malformed body;
	// retryable, indistinguishable rollback from a rejection.
	OutcomeTransportFailed OutcomeKind = "TRANSPORT_FAILED"
	// OutcomeDropped: a duplicate submission lost the gate race. Dropped
	// silently; never surfaced to the user as an error.
	OutcomeDropped OutcomeKind = "DROPPED"
)

// Outcome is the result of one initiation or admin submission.
type Outcome struct {
	Kind       OutcomeKind
	PaymentURL string // set only for OutcomeRedirected
	Err        error  // set for OutcomeRejected and OutcomeTransportFailed
}

// Retryable reports whether the caller may submit again after this outcome.
func (o Outcome) Retryable() bool {
	return o.Kind == OutcomeRejected || o.Kind == OutcomeTransportFailed
}
