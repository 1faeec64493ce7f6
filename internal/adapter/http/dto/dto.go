package dto

// InitiatePaymentRequest is the body for POST /paiement/:provider.
// The checkout pages historically sent the subscriber number under either
// key, so both are accepted.
type InitiatePaymentRequest struct {
	Reference string `json:"reference" binding:"omitempty,safe_id"`
	Telephone string `json:"telephone,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UnifiedInitRequest is the body for POST /paiement/init.
type UnifiedInitRequest struct {
	Provider  string `json:"provider"`
	Reference string `json:"reference" binding:"omitempty,safe_id"`
	Phone     string `json:"phone,omitempty"`
	Telephone string `json:"telephone,omitempty"`
}

// AdminActionRequest is the body for POST /admin/actions/:action.
// Reason and amount are validated by the controller, not by binding, so
// the user-facing messages stay consistent with the rest of the core.
type AdminActionRequest struct {
	Reference string   `json:"reference" binding:"omitempty,safe_id"`
	Reason    string   `json:"reason"`
	Amount    *float64 `json:"amount,omitempty"`
}

// LoginRequest is the body for operator login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the body for a successful operator login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// SessionResponse carries a freshly minted page session id.
type SessionResponse struct {
	Session string `json:"session"`
}

// PhoneNumber returns the subscriber number from whichever key was sent.
func (r InitiatePaymentRequest) PhoneNumber() string {
	if r.Telephone != "" {
		return r.Telephone
	}
	return r.Phone
}

// PhoneNumber returns the subscriber number from whichever key was sent.
func (r UnifiedInitRequest) PhoneNumber() string {
	if r.Phone != "" {
		return r.Phone
	}
	return r.Telephone
}
