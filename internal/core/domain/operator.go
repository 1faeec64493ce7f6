package domain

import (
	"time"

	"github.com/google/uuid"
)

// OperatorStatus represents the account state of a console operator.
type OperatorStatus string

const (
	OperatorStatusActive   OperatorStatus = "ACTIVE"
	OperatorStatusDisabled OperatorStatus = "DISABLED"
)

// Operator is an admin-console user allowed to issue privileged actions.
type Operator struct {
	ID           uuid.UUID      `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"-"` // Argon2id encoded hash
	Status       OperatorStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
}

// IsActive returns true if the operator may log in and act.
func (o *Operator) IsActive() bool {
	return o.Status == OperatorStatusActive
}
