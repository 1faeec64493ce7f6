package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditKind represents the type of audited console activity.
type AuditKind string

const (
	AuditKindInitiation  AuditKind = "INITIATION"
	AuditKindAdminAction AuditKind = "ADMIN_ACTION"
	AuditKindLogin       AuditKind = "LOGIN"
)

// AuditEntry records a single privileged operation issued through the
// console, whatever its outcome. The backend keeps its own journal; this is
// the console-side trail of who asked for what.
type AuditEntry struct {
	ID         uuid.UUID   `json:"id"`
	OperatorID *uuid.UUID  `json:"operator_id,omitempty"` // nil for checkout traffic
	Kind       AuditKind   `json:"kind"`
	Reference  string      `json:"reference,omitempty"`
	Detail     string      `json:"detail,omitempty"` // provider or action name
	Outcome    OutcomeKind `json:"outcome"`
	SessionID  string      `json:"session_id,omitempty"`
	IPAddress  string      `json:"ip_address"`
	CreatedAt  time.Time   `json:"created_at"`
}
