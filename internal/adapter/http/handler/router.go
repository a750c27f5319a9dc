package handler

import (
	"time"

	"vishwas-ledger/internal/adapter/http/middleware"
	"vishwas-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies; transcripts are short.
const maxBodyBytes = 64 << 10

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	VerifySvc          ports.VerificationService
	ReportingSvc       ports.ReportingService
	Reconciler         ports.Reconciler
	SigSvc             ports.SignatureService
	TokenSvc           ports.TokenService
	NonceStore         ports.NonceStore
	ConfirmationSecret string
	SignatureMaxDrift  time.Duration        // zero = middleware default
	NonceTTL           time.Duration        // zero = middleware default
	RateLimitStore     ports.RateLimitStore // nil = rate limiting disabled
	HealthCheckers     []ports.HealthChecker
	Logger             zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.AuditLog(deps.Logger))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		rule, ok := rules[group]
		if deps.RateLimitStore == nil || !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	txHandler := NewTransactionHandler(deps.VerifySvc, deps.ReportingSvc)
	transactions := v1.Group("/transactions")
	{
		transactions.POST("", rl("submit"), txHandler.Submit)
		transactions.GET("/:id", rl("read"), txHandler.Get)

		botAuth := middleware.ConfirmationAuth(middleware.ConfirmationAuthConfig{
			Secret:   deps.ConfirmationSecret,
			Signer:   deps.SigSvc,
			Nonces:   deps.NonceStore,
			MaxDrift: deps.SignatureMaxDrift,
			NonceTTL: deps.NonceTTL,
			Logger:   deps.Logger,
		})
		transactions.POST("/:id/confirmation", botAuth, rl("confirmation"), txHandler.Confirm)
	}

	v1.GET("/accounts/:id/verified-transactions", rl("read"), txHandler.ListVerified)

	opHandler := NewOperatorHandler(deps.ReportingSvc, deps.Reconciler)
	operator := v1.Group("/operator", middleware.OperatorAuth(deps.TokenSvc, deps.Logger))
	{
		operator.GET("/ledger-failures", rl("operator"), opHandler.LedgerFailures)
		operator.GET("/flagged", rl("operator"), opHandler.Flagged)
		operator.GET("/ledger-attempts/:id", rl("operator"), opHandler.Attempts)
		operator.POST("/reconcile", rl("reconcile"), opHandler.Reconcile)
	}

	return r
}
