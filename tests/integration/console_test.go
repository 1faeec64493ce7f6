package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	httpHandler "momo-checkout-console/internal/adapter/http/handler"
	redisStorage "momo-checkout-console/internal/adapter/storage/redis"
	"momo-checkout-console/internal/adapter/upstream"
	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"
	"momo-checkout-console/internal/service"
	"momo-checkout-console/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerPageSession = "X-Page-Session"

// fakeBackend stands in for the upstream payment backend. It counts calls
// so the tests can assert how many initiations actually went over the wire.
type fakeBackend struct {
	server *httptest.Server

	initCalls  atomic.Int32
	adminCalls atomic.Int32

	mu            sync.Mutex
	initError     string
	adminError    string
	lastAdminPath string
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("/paiement/", func(w http.ResponseWriter, r *http.Request) {
		n := b.initCalls.Add(1)
		b.mu.Lock()
		errMsg := b.initError
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if errMsg != "" {
			fmt.Fprintf(w, `{"error": %q}`, errMsg)
			return
		}
		fmt.Fprintf(w, `{"payment_url": "https://pay.example/session/%d"}`, n)
	})

	mux.HandleFunc("/admin/actions/", func(w http.ResponseWriter, r *http.Request) {
		b.adminCalls.Add(1)
		b.mu.Lock()
		b.lastAdminPath = r.URL.Path
		errMsg := b.adminError
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if errMsg != "" {
			fmt.Fprintf(w, `{"success": false, "error": %q}`, errMsg)
			return
		}
		fmt.Fprint(w, `{"success": true}`)
	})

	mux.HandleFunc("/admin/realtime/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"transactions": {"pending": 4, "blocked": 1, "success": 20},
			"volume": {"total": 125000.5},
			"refunds": {"total": 2},
			"risks": {"alerts": 3}
		}`)
	})

	b.server = httptest.NewServer(mux)
	return b
}

func (b *fakeBackend) adminPath() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastAdminPath
}

// testApp builds the full console stack: real HTTP layer, middleware,
// handlers, services, and Redis stores over miniredis, talking to a fake
// upstream backend.
type testApp struct {
	server    *httptest.Server
	backend   *fakeBackend
	poller    *service.StatsPoller
	auditRepo *inMemoryAuditRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := newFakeBackend()
	t.Cleanup(backend.server.Close)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	// Redis stores
	statsCache := redisStorage.NewStatsCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Core services with real implementations
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 12*time.Hour, "test-issuer")

	// In-memory repos, seeded with one active operator
	operatorRepo := newInMemoryOperatorRepo()
	auditRepo := newInMemoryAuditRepo()

	hash, err := hashSvc.Hash("CorrectHorse9!")
	require.NoError(t, err)
	require.NoError(t, operatorRepo.Create(t.Context(), &domain.Operator{
		ID:           uuid.New(),
		Username:     "ops_admin",
		PasswordHash: hash,
		Status:       domain.OperatorStatusActive,
		CreatedAt:    time.Now(),
	}))

	log := logger.New("debug", false)

	// Upstream gateway against the fake backend
	gateway := upstream.NewClient(upstream.Config{
		BaseURL:   backend.server.URL,
		CSRFToken: "test-csrf",
	}, &http.Client{Timeout: 5 * time.Second}, log)

	// Business services
	authSvc := service.NewAuthService(operatorRepo, hashSvc, tokenSvc)
	auditSvc := service.NewAuditService(auditRepo, log)
	sessions := service.NewSessionManager(gateway, 30*time.Minute, log)
	poller := service.NewStatsPoller(gateway, statsCache, 30*time.Millisecond, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Sessions:       sessions,
		AuthSvc:        authSvc,
		TokenSvc:       tokenSvc,
		Stats:          poller,
		AuditSvc:       auditSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:    server,
		backend:   backend,
		poller:    poller,
		auditRepo: auditRepo,
	}
}

func (a *testApp) post(t *testing.T, path, token, session string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if session != "" {
		req.Header.Set(headerPageSession, session)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (a *testApp) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	resp := a.post(t, "/admin/auth/login", "", "", map[string]string{
		"username": "ops_admin",
		"password": "CorrectHorse9!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp := app.get(t, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_CheckoutFlow(t *testing.T) {
	app := newTestApp(t)

	// Page load mints a session.
	resp := app.post(t, "/session", "", "", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session, _ := decodeBody(t, resp)["session"].(string)
	require.NotEmpty(t, session)

	// First click initiates and returns the provider hand-off URL.
	resp = app.post(t, "/paiement/wave", "", session, map[string]string{"reference": "TX-100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["payment_url"], "https://pay.example/session/")

	// A residual click after the redirect is dropped without a second call.
	resp = app.post(t, "/paiement/wave", "", session, map[string]string{"reference": "TX-100"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.EqualValues(t, 1, app.backend.initCalls.Load())

	// The initiation lands in the audit trail; recording is asynchronous.
	require.Eventually(t, func() bool {
		return len(app.auditRepo.all()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	entry := app.auditRepo.all()[0]
	assert.Equal(t, domain.AuditKindInitiation, entry.Kind)
	assert.Equal(t, "TX-100", entry.Reference)
	assert.Equal(t, domain.OutcomeRedirected, entry.Outcome)
}

func TestIntegration_ConcurrentClicksSingleInitiation(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/session", "", "", map[string]string{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session, _ := decodeBody(t, resp)["session"].(string)

	const clicks = 8
	statuses := make(chan int, clicks)
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := app.post(t, "/paiement/wave", "", session, map[string]string{"reference": "TX-200"})
			r.Body.Close()
			statuses <- r.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	var redirected, dropped int
	for code := range statuses {
		switch code {
		case http.StatusOK:
			redirected++
		case http.StatusNoContent:
			dropped++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}
	assert.Equal(t, 1, redirected)
	assert.Equal(t, clicks-1, dropped)
	assert.EqualValues(t, 1, app.backend.initCalls.Load())
}

func TestIntegration_BackendRejectionSurfaced(t *testing.T) {
	app := newTestApp(t)
	app.backend.mu.Lock()
	app.backend.initError = "Montant invalide"
	app.backend.mu.Unlock()

	resp := app.post(t, "/paiement/orange", "", "page-1", map[string]string{
		"reference": "TX-300",
		"telephone": "771234567",
	})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Montant invalide", body["error"])
	assert.Equal(t, "UPS_001", body["error_code"])

	// The failure released the gate; a retry reaches the backend again.
	app.backend.mu.Lock()
	app.backend.initError = ""
	app.backend.mu.Unlock()

	resp = app.post(t, "/paiement/orange", "", "page-1", map[string]string{
		"reference": "TX-300",
		"telephone": "771234567",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, app.backend.initCalls.Load())
}

func TestIntegration_OperatorLoginAndAction(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	resp := app.post(t, "/admin/actions/approve", token, "admin-page-1", map[string]string{
		"reference": "TX-400",
		"reason":    "manual verification passed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	// The backend names the approval route "validate".
	assert.Equal(t, "/admin/actions/validate", app.backend.adminPath())
	assert.EqualValues(t, 1, app.backend.adminCalls.Load())
}

func TestIntegration_AdminRequiresToken(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/admin/actions/approve", "", "admin-page-1", map[string]string{
		"reference": "TX-400",
		"reason":    "manual verification passed",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, 0, app.backend.adminCalls.Load())
}

func TestIntegration_RefundAmountValidation(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	resp := app.post(t, "/admin/actions/refund", token, "admin-page-1", map[string]interface{}{
		"reference": "TX-500",
		"reason":    "double charge",
		"amount":    0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "VAL_003", body["error_code"])
	assert.EqualValues(t, 0, app.backend.adminCalls.Load())
}

func TestIntegration_LoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/admin/auth/login", "", "", map[string]string{
		"username": "ops_admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "AUTH_001", body["error_code"])
}

func TestIntegration_StatsPolling(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	// Nothing polled yet and the shared cache is empty.
	resp := app.get(t, "/admin/realtime/stats", token)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	go app.poller.Run(t.Context())

	require.Eventually(t, func() bool {
		r := app.get(t, "/admin/realtime/stats", token)
		defer r.Body.Close()
		return r.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	resp = app.get(t, "/admin/realtime/stats", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	tx, _ := body["transactions"].(map[string]interface{})
	require.NotNil(t, tx)
	assert.EqualValues(t, 4, tx["pending"])
}

func TestIntegration_UnknownProviderRejected(t *testing.T) {
	app := newTestApp(t)

	resp := app.post(t, "/paiement/mpesa", "", "page-1", map[string]string{"reference": "TX-600"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "VAL_006", body["error_code"])
	code, _ := body["error"].(string)
	assert.True(t, strings.Contains(code, "mpesa"))
	assert.EqualValues(t, 0, app.backend.initCalls.Load())
}
