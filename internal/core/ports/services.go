package ports

import (
	"context"
	"time"

	"momo-checkout-console/internal/core/domain"

	"github.com/google/uuid"
)

// Gate guards a privileged operation against concurrent execution.
// TryAcquire is synchronous and non-blocking: a false return means the
// caller abandons the attempt, it never waits. Release must be idempotent
// and called on every exit path except a successful redirect hand-off.
type Gate interface {
	TryAcquire() bool
	Release()
}

// InitiationRequest is the payload for one upstream payment initiation.
type InitiationRequest struct {
	Provider  domain.Provider
	Reference string
	Phone     string // subscriber number; required by some providers
}

// InitiationResult carries the provider hand-off URL on success.
type InitiationResult struct {
	PaymentURL string
}

// UpstreamGateway is the payment backend, an external collaborator.
// Implementations must distinguish a backend-declared rejection (an
// apperror UPS error carrying the backend message) from a transport
// failure (an apperror NET error), since callers roll back identically
// but surface different messages.
type UpstreamGateway interface {
	InitiatePayment(ctx context.Context, req InitiationRequest) (*InitiationResult, error)
	SubmitAdminAction(ctx context.Context, req domain.AdminActionRequest) error
	FetchStats(ctx context.Context) (*domain.StatsSnapshot, error)
}

// Severity grades user-facing notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// InputSpec describes one piece of supplemental input to request.
type InputSpec struct {
	Name  string // e.g. "telephone"
	Label string // human-readable prompt
}

// ConsoleUI is the capability surface the host page supplies. The core
// calls it for supplemental input and user-facing messages and never
// assumes a particular presentation mechanism.
type ConsoleUI interface {
	// RequestInput asks the user surface for a value. ok is false when the
	// surface cannot supply it (cancelled, or no interactive channel).
	RequestInput(ctx context.Context, spec InputSpec) (value string, ok bool)
	// Notify surfaces a message to the user at the given severity.
	Notify(ctx context.Context, severity Severity, message string)
}

// PaymentInitiator turns one user click into at most one upstream
// initiation call for the page session it belongs to.
type PaymentInitiator interface {
	Initiate(ctx context.Context, provider domain.Provider, reference string, supplemental map[string]string, ui ConsoleUI) domain.Outcome
}

// AdminActionController submits one privileged operator mutation for the
// page session it belongs to.
type AdminActionController interface {
	Submit(ctx context.Context, operatorID uuid.UUID, req domain.AdminActionRequest, ui ConsoleUI) domain.Outcome
}

// StatsSource exposes the most recent successfully fetched snapshot.
// Returns nil when no poll has succeeded yet and no cached copy exists.
type StatsSource interface {
	Latest(ctx context.Context) (*domain.StatsSnapshot, error)
}

// PageSession groups the per-page controller instances. Payment and admin
// gates are independent: an in-flight admin action must not block a
// concurrent payment attempt, and vice versa.
type PageSession interface {
	ID() string
	Initiator() PaymentInitiator
	AdminActions() AdminActionController
}

// SessionManager tracks live page sessions.
type SessionManager interface {
	// Mint creates a fresh session and returns its id.
	Mint() PageSession
	// GetOrCreate returns the session for id, creating it on first use.
	GetOrCreate(id string) PageSession
	// Lookup returns the session for id if it exists.
	Lookup(id string) (PageSession, bool)
}

// AuthService authenticates console operators.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// HashService handles operator password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(operatorID uuid.UUID, username string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OperatorID uuid.UUID
	Username   string
}

// AuditService records console activity. Implementations log and persist
// asynchronously; recording never blocks or fails the audited operation.
type AuditService interface {
	Record(ctx context.Context, entry *domain.AuditEntry)
}
