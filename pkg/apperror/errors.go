package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Input Validation (VAL) ----

func ErrMissingIdentifiers() *AppError {
	return New("VAL_001", "Provider and reference are required", http.StatusBadRequest)
}

func ErrReasonRequired() *AppError {
	return New("VAL_002", "Reason is required", http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("VAL_003", "Refund amount must be a positive number", http.StatusBadRequest)
}

func ErrUnknownAction(action string) *AppError {
	return New("VAL_004", fmt.Sprintf("Unknown admin action %q", action), http.StatusBadRequest)
}

func ErrPhoneRequired() *AppError {
	return New("VAL_005", "Subscriber phone number is required for this provider", http.StatusBadRequest)
}

func ErrUnknownProvider(provider string) *AppError {
	return New("VAL_006", fmt.Sprintf("Unsupported provider %q", provider), http.StatusBadRequest)
}

// Validation returns a generic VAL_000 validation error.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

// ---- Upstream Backend (UPS) ----

// UpstreamRejected carries the backend-supplied error message when the
// payment backend declines an initiation or admin action.
func UpstreamRejected(message string) *AppError {
	if message == "" {
		message = "Payment service rejected the request"
	}
	return New("UPS_001", message, http.StatusBadGateway)
}

func ErrSessionNotFound() *AppError {
	return New("UPS_002", "Page session unknown or expired", http.StatusBadRequest)
}

// ---- Transport (NET) ----

// CodeTransport marks failures where no backend payload exists.
const CodeTransport = "NET_001"

// TransportFailure covers network errors, timeouts, and malformed response
// bodies. No backend payload exists, so the message stays generic.
func TransportFailure(err error) *AppError {
	return Wrap(CodeTransport, "Payment service unreachable", http.StatusBadGateway, err)
}

// IsTransport reports whether err is a transport-level failure, as opposed
// to a backend-declared rejection.
func IsTransport(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == CodeTransport
}

// ---- Operator Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrOperatorDisabled() *AppError {
	return New("AUTH_003", "Operator account is disabled", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
