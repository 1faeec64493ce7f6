package domain

import (
	"math"
	"strings"
)

// AdminAction is a privileged mutation an operator issues against a
// backend-held transaction.
type AdminAction string

const (
	AdminActionApprove AdminAction = "approve"
	AdminActionBlock   AdminAction = "block"
	AdminActionRefund  AdminAction = "refund"
)

// KnownAdminAction reports whether a is an action this console exposes.
func KnownAdminAction(a AdminAction) bool {
	return a == AdminActionApprove || a == AdminActionBlock || a == AdminActionRefund
}

// UpstreamPath returns the backend route segment for the action. The
// backend names the approval route "validate".
func (a AdminAction) UpstreamPath() string {
	if a == AdminActionApprove {
		return "validate"
	}
	return string(a)
}

// AdminActionRequest is the operator's intent: action, target transaction,
// mandatory reason, and an amount only for refunds.
type AdminActionRequest struct {
	Action    AdminAction
	Reference string
	Reason    string
	Amount    *float64 // required iff Action == refund
}

// Normalize trims the reason in place. Call before the validity checks.
func (r *AdminActionRequest) Normalize() {
	r.Reason = strings.TrimSpace(r.Reason)
}

// HasValidReason reports whether the trimmed reason is non-empty.
func (r AdminActionRequest) HasValidReason() bool {
	return strings.TrimSpace(r.Reason) != ""
}

// HasValidAmount reports whether the amount satisfies the refund rule:
// present, finite, and strictly positive.
func (r AdminActionRequest) HasValidAmount() bool {
	if r.Action != AdminActionRefund {
		return true
	}
	if r.Amount == nil {
		return false
	}
	a := *r.Amount
	return !math.IsNaN(a) && !math.IsInf(a, 0) && a > 0
}
