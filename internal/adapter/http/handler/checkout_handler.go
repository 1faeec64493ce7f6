package handler

import (
	"net/http"
	"time"

	"momo-checkout-console/internal/adapter/http/dto"
	"momo-checkout-console/internal/adapter/http/middleware"
	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/pkg/apperror"
	"momo-checkout-console/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles payment initiation endpoints.
type CheckoutHandler struct {
	sessions ports.SessionManager
	auditSvc ports.AuditService // nil = audit disabled
	log      zerolog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(sessions ports.SessionManager, auditSvc ports.AuditService, log zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, auditSvc: auditSvc, log: log}
}

// MintSession handles POST /session. Checkout pages call it once on load
// and send the id back with every initiation.
func (h *CheckoutHandler) MintSession(c *gin.Context) {
	s := h.sessions.Mint()
	response.OK(c, dto.SessionResponse{Session: s.ID()})
}

// Initiate handles POST /paiement/:provider.
func (h *CheckoutHandler) Initiate(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	h.initiate(c, domain.Provider(c.Param("provider")), req.Reference, req.PhoneNumber())
}

// InitiateUnified handles POST /paiement/init, where the provider rides
// in the body instead of the path.
func (h *CheckoutHandler) InitiateUnified(c *gin.Context) {
	var req dto.UnifiedInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	h.initiate(c, domain.Provider(req.Provider), req.Reference, req.PhoneNumber())
}

func (h *CheckoutHandler) initiate(c *gin.Context, provider domain.Provider, reference, phone string) {
	sessionID := c.GetHeader(middleware.HeaderPageSession)
	if sessionID == "" {
		response.Error(c, apperror.Validation("missing "+middleware.HeaderPageSession+" header"))
		return
	}
	session := h.sessions.GetOrCreate(sessionID)

	supplemental := map[string]string{}
	if phone != "" {
		supplemental["telephone"] = phone
	}

	outcome := session.Initiator().Initiate(c.Request.Context(), provider, reference, supplemental, httpUI{log: h.log})
	h.audit(c, session.ID(), provider, reference, outcome)

	switch outcome.Kind {
	case domain.OutcomeRedirected:
		response.PaymentURL(c, outcome.PaymentURL)
	case domain.OutcomeDropped:
		// duplicate click; the first request is still in flight
		c.Status(http.StatusNoContent)
	default:
		response.Error(c, outcome.Err)
	}
}

func (h *CheckoutHandler) audit(c *gin.Context, sessionID string, provider domain.Provider, reference string, outcome domain.Outcome) {
	if h.auditSvc == nil || outcome.Kind == domain.OutcomeDropped {
		return
	}
	h.auditSvc.Record(c.Request.Context(), &domain.AuditEntry{
		ID:        uuid.New(),
		Kind:      domain.AuditKindInitiation,
		Reference: reference,
		Detail:    string(provider),
		Outcome:   outcome.Kind,
		SessionID: sessionID,
		IPAddress: c.ClientIP(),
		CreatedAt: time.Now(),
	})
}
