// Package api wires the gin HTTP surface: routes, middleware, CORS and rate
// limiting. The audit middleware is installed globally so every request the
// router sees leaves exactly one audit entry.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quantabi/investment/internal/api/handler"
	"github.com/quantabi/investment/internal/api/middleware"
	"github.com/quantabi/investment/internal/audit"
	"github.com/quantabi/investment/internal/config"
	"github.com/quantabi/investment/internal/repository"
	"github.com/quantabi/investment/internal/service"
)

// RouterDeps bundles every dependency needed to build the router.
// Populated once in main() and passed to SetupRouter.
type RouterDeps struct {
	AuthSvc    *service.AuthService
	ProductSvc *service.ProductService
	InvestSvc  *service.InvestmentService
	AuditRepo  *repository.AuditRepository
	Recorder   *audit.Recorder
	Cfg        *config.Config
}

// SetupRouter creates and configures the main Gin engine with all routes,
// middleware, CORS, and rate limiting rules.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())

	// ── Audit capture (global: one entry per request, success or failure) ────
	// Installed ahead of Recovery and CORS so panics-turned-500 and aborted
	// preflights are captured too.
	if deps.Recorder != nil {
		r.Use(middleware.AuditMiddleware(deps.Recorder))
	}

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	// ── CORS ─────────────────────────────────────────────────────────────────
	r.Use(corsMiddleware(deps.Cfg))

	// ── Health check ─────────────────────────────────────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(deps.AuthSvc)
	productH := handler.NewProductHandler(deps.ProductSvc)
	investH := handler.NewInvestmentHandler(deps.InvestSvc)
	txH := handler.NewTransactionHandler(deps.AuditRepo)

	// ── Auth middleware (shared) ─────────────────────────────────────────────
	authMW := middleware.AuthMiddleware(deps.AuthSvc)

	// ── Rate limiters ────────────────────────────────────────────────────────
	authRL := middleware.RateLimitMiddleware(10)   // 10 req/s per IP for auth endpoints
	investRL := middleware.RateLimitMiddleware(30) // 30 req/s per IP for ledger writes

	api := r.Group("/api")
	{
		// ── Auth (public, strict rate limit) ─────────────────────────────────
		auth := api.Group("/auth")
		auth.Use(authRL)
		{
			auth.POST("/signup", authH.Signup)
			auth.POST("/login", authH.Login)
			auth.POST("/password-reset", authH.PasswordReset)
		}

		// ── Product catalog ──────────────────────────────────────────────────
		products := api.Group("/products")
		{
			products.GET("", productH.List)
			products.GET("/recommended", productH.Recommended)
			products.GET("/:id", productH.Get)

			// Mutations require an authenticated caller.
			products.POST("", authMW, productH.Create)
			products.PUT("/:id", authMW, productH.Update)
			products.DELETE("/:id", authMW, productH.Delete)
		}

		// ── Authenticated routes ─────────────────────────────────────────────
		authed := api.Group("")
		authed.Use(authMW)
		{
			investments := authed.Group("/investments")
			investments.Use(investRL)
			{
				investments.POST("", investH.Invest)
				investments.GET("/portfolio", investH.Portfolio)
			}

			authed.GET("/transactions", txH.List)
		}
	}

	return r
}

// ── CORS helper ───────────────────────────────────────────────────────────────

// corsMiddleware returns a gin middleware that sets appropriate CORS headers.
// In development all origins are allowed; in production only configured origins.
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if !cfg.IsProd() {
			// Development: allow any origin
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			allowed := map[string]bool{
				"https://quantabi.com":     true,
				"https://www.quantabi.com": true,
			}
			if allowed[origin] {
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
