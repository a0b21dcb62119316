package handler

import (
	"net/http"

	"hydra-ledger/internal/adapter/http/middleware"
	"hydra-ledger/internal/core/ports"
	"hydra-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc     ports.AuthService
	LedgerSvc   ports.LedgerService
	ExchangeSvc ports.ExchangeService
	TreasurySvc ports.TreasuryService
	TokenSvc    ports.TokenService
	Gate        *service.LatencyGate // nil = no simulated latency
	Logger      zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API v1 routes. The latency gate applies to the whole surface so
	// every call feels like it crosses a slow upstream.
	v1 := r.Group("/api/v1")
	if deps.Gate != nil {
		v1.Use(middleware.Latency(deps.Gate))
	}

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.LedgerSvc)
	exchangeHandler := NewExchangeHandler(deps.ExchangeSvc)

	user := v1.Group("", jwtAuth)
	{
		user.GET("/wallets", walletHandler.GetWallets)
		user.POST("/wallets/address", walletHandler.GenerateAddress)
		user.GET("/overview", walletHandler.GetOverview)
		user.GET("/transactions", walletHandler.ListTransactions)
		user.POST("/deposits", walletHandler.Deposit)
		user.POST("/withdrawals", walletHandler.Withdraw)
		user.GET("/exchange/quote", exchangeHandler.GetQuote)
		user.POST("/exchange", exchangeHandler.Execute)
	}

	// --- Admin routes (JWT + admin role) ---
	adminHandler := NewAdminHandler(deps.TreasurySvc, deps.LedgerSvc)
	admin := v1.Group("/admin", jwtAuth, middleware.RequireAdmin())
	{
		admin.GET("/treasury", adminHandler.GetTreasury)
		admin.POST("/withdrawals", adminHandler.Withdraw)
		admin.GET("/withdrawals", adminHandler.ListWithdrawals)
		admin.POST("/transactions/:id/settle", adminHandler.Settle)
	}

	return r
}
