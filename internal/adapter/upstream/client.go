// Package upstream is the HTTP adapter for the payment backend, the
// external collaborator that creates provider sessions, applies privileged
// admin actions, and aggregates realtime statistics.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/pkg/apperror"

	"github.com/rs/zerolog"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the upstream connection settings.
type Config struct {
	BaseURL string
	// CSRFToken is attached as X-CSRFToken to every mutation. Empty means
	// the backend exposes the routes CSRF-exempt.
	CSRFToken string
	// UseUnifiedInit selects POST /paiement/init over the per-provider
	// routes, for backends that support it.
	UseUnifiedInit bool
}

// Client implements ports.UpstreamGateway.
type Client struct {
	baseURL     string
	csrfToken   string
	unifiedInit bool
	httpClient  HTTPClient
	log         zerolog.Logger
}

// NewClient creates an upstream gateway client.
func NewClient(cfg Config, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		csrfToken:   cfg.CSRFToken,
		unifiedInit: cfg.UseUnifiedInit,
		httpClient:  httpClient,
		log:         log,
	}
}

// initiationResponse is the backend's initiation reply. A present error
// string wins over both the HTTP status and a present payment_url.
type initiationResponse struct {
	PaymentURL string `json:"payment_url"`
	Error      string `json:"error"`
}

// InitiatePayment issues exactly one initiation POST. Success requires a
// 2xx status AND a non-empty payment_url AND no body-level error; anything
// else is a rejection or, when no backend payload exists, a transport
// failure.
func (c *Client) InitiatePayment(ctx context.Context, req ports.InitiationRequest) (*ports.InitiationResult, error) {
	var path string
	payload := map[string]interface{}{"reference": req.Reference}
	if c.unifiedInit {
		path = "/paiement/init"
		payload["provider"] = string(req.Provider)
		if req.Phone != "" {
			payload["phone"] = req.Phone
		}
	} else {
		path = "/paiement/" + string(req.Provider)
		if req.Phone != "" {
			payload["telephone"] = req.Phone
		}
	}

	status, body, err := c.post(ctx, path, payload)
	if err != nil {
		return nil, apperror.TransportFailure(err)
	}

	var parsed initiationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperror.TransportFailure(fmt.Errorf("malformed initiation response: %w", err))
	}

	if parsed.Error != "" {
		return nil, apperror.UpstreamRejected(parsed.Error)
	}
	if status < 200 || status >= 300 || parsed.PaymentURL == "" {
		// A 2xx without a payment_url is not a success.
		return nil, apperror.UpstreamRejected("")
	}

	return &ports.InitiationResult{PaymentURL: parsed.PaymentURL}, nil
}

// adminActionResponse is the backend's admin action reply.
type adminActionResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SubmitAdminAction issues one privileged mutation. Success is a body-level
// {"success": true}; everything else is a rejection.
func (c *Client) SubmitAdminAction(ctx context.Context, req domain.AdminActionRequest) error {
	payload := map[string]interface{}{
		"reference": req.Reference,
		"reason":    req.Reason,
	}
	if req.Action == domain.AdminActionRefund && req.Amount != nil {
		payload["amount"] = *req.Amount
	}

	status, body, err := c.post(ctx, "/admin/actions/"+req.Action.UpstreamPath(), payload)
	if err != nil {
		return apperror.TransportFailure(err)
	}

	var parsed adminActionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apperror.TransportFailure(fmt.Errorf("malformed admin action response: %w", err))
	}

	if parsed.Error != "" {
		return apperror.UpstreamRejected(parsed.Error)
	}
	if status < 200 || status >= 300 || !parsed.Success {
		return apperror.UpstreamRejected("")
	}
	return nil
}

// FetchStats reads the realtime aggregates. Read-only and idempotent.
func (c *Client) FetchStats(ctx context.Context) (*domain.StatsSnapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/admin/realtime/stats", nil)
	if err != nil {
		return nil, apperror.TransportFailure(err)
	}
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.TransportFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.TransportFailure(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.UpstreamRejected(fmt.Sprintf("stats endpoint returned %d", resp.StatusCode))
	}

	var snap domain.StatsSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, apperror.TransportFailure(fmt.Errorf("malformed stats response: %w", err))
	}
	return &snap, nil
}

// post sends a JSON POST and returns status and raw body. Transport-level
// problems (including reading the body) are returned as plain errors for
// the caller to wrap.
func (c *Client) post(ctx context.Context, path string, payload interface{}) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.csrfToken != "" {
		httpReq.Header.Set("X-CSRFToken", c.csrfToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("upstream call")

	return resp.StatusCode, body, nil
}
