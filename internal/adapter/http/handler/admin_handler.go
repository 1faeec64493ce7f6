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

// AdminHandler handles operator action and stats endpoints.
type AdminHandler struct {
	sessions ports.SessionManager
	stats    ports.StatsSource
	auditSvc ports.AuditService // nil = audit disabled
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sessions ports.SessionManager, stats ports.StatsSource, auditSvc ports.AuditService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{sessions: sessions, stats: stats, auditSvc: auditSvc, log: log}
}

// SubmitAction handles POST /admin/actions/:action.
func (h *AdminHandler) SubmitAction(c *gin.Context) {
	oid, ok := c.Get(middleware.CtxOperatorID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	operatorID, ok := oid.(uuid.UUID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	sessionID := c.GetHeader(middleware.HeaderPageSession)
	if sessionID == "" {
		response.Error(c, apperror.Validation("missing "+middleware.HeaderPageSession+" header"))
		return
	}
	session := h.sessions.GetOrCreate(sessionID)

	actionReq := domain.AdminActionRequest{
		Action:    domain.AdminAction(c.Param("action")),
		Reference: req.Reference,
		Reason:    req.Reason,
		Amount:    req.Amount,
	}

	outcome := session.AdminActions().Submit(c.Request.Context(), operatorID, actionReq, httpUI{log: h.log})
	h.audit(c, session.ID(), operatorID, actionReq, outcome)

	switch outcome.Kind {
	case domain.OutcomeApplied:
		response.Applied(c)
	case domain.OutcomeDropped:
		// duplicate submission; the first request is still in flight
		c.Status(http.StatusNoContent)
	default:
		response.Error(c, outcome.Err)
	}
}

// Stats handles GET /admin/realtime/stats. It serves the latest snapshot
// the poller has, never blocking on the upstream backend.
func (h *AdminHandler) Stats(c *gin.Context) {
	snap, err := h.stats.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats not yet available"})
		return
	}
	response.OK(c, snap)
}

func (h *AdminHandler) audit(c *gin.Context, sessionID string, operatorID uuid.UUID, req domain.AdminActionRequest, outcome domain.Outcome) {
	if h.auditSvc == nil || outcome.Kind == domain.OutcomeDropped {
		return
	}
	h.auditSvc.Record(c.Request.Context(), &domain.AuditEntry{
		ID:         uuid.New(),
		OperatorID: &operatorID,
		Kind:       domain.AuditKindAdminAction,
		Reference:  req.Reference,
		Detail:     string(req.Action),
		Outcome:    outcome.Kind,
		SessionID:  sessionID,
		IPAddress:  c.ClientIP(),
		CreatedAt:  time.Now(),
	})
}
