package handler

import (
	"momo-checkout-console/internal/adapter/http/middleware"
	redisStore "momo-checkout-console/internal/adapter/storage/redis"
	"momo-checkout-console/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Sessions       ports.SessionManager
	AuthSvc        ports.AuthService
	TokenSvc       ports.TokenService
	Stats          ports.StatsSource
	AuditSvc       ports.AuditService              // nil = audit logging disabled
	RateLimitStore *redisStore.RateLimitStore      // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
// The paths mirror what the hosted checkout and back-office pages call.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Checkout routes (anonymous, page-session scoped) ---
	checkoutHandler := NewCheckoutHandler(deps.Sessions, deps.AuditSvc, deps.Logger)
	r.POST("/session", rl("checkout"), checkoutHandler.MintSession)
	paiement := r.Group("/paiement")
	{
		paiement.POST("/init", rl("checkout"), checkoutHandler.InitiateUnified)
		paiement.POST("/:provider", rl("checkout"), checkoutHandler.Initiate)
	}

	// --- Admin routes ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	adminHandler := NewAdminHandler(deps.Sessions, deps.Stats, deps.AuditSvc, deps.Logger)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	admin := r.Group("/admin")
	{
		admin.POST("/auth/login", rl("auth_login"), authHandler.Login)
		admin.POST("/actions/:action", jwtAuth, rl("admin_actions"), adminHandler.SubmitAction)
		admin.GET("/realtime/stats", jwtAuth, rl("stats"), adminHandler.Stats)
	}

	return r
}
