package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hydra-ledger/config"
	httpHandler "hydra-ledger/internal/adapter/http/handler"
	"hydra-ledger/internal/adapter/storage/memory"
	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/service"
	"hydra-ledger/pkg/logger"

	"github.com/shopspring/decimal"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Hydra Ledger")

	ctx := context.Background()

	// Initialize in-memory store and repositories
	store := memory.NewStore()
	identityRepo := memory.NewIdentityRepo(store)
	walletRepo := memory.NewWalletRepo(store)
	txRepo := memory.NewTransactionRepo(store)
	treasuryRepo := memory.NewTreasuryRepo(store)
	transactor := memory.NewTransactor(store)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	addrSource := service.NewSeededAddressSource(cfg.Seed.RNGSeed)
	currencies := service.NewCurrencies(cfg.Engine.FiatCurrencies, cfg.Engine.CryptoCurrencies)
	rates := service.NewRateTable(cfg.Engine.Rates)

	// Initialize business services
	authSvc := service.NewAuthService(identityRepo, hashSvc, tokenSvc, log)
	ledgerSvc := service.NewLedgerService(
		walletRepo,
		txRepo,
		treasuryRepo,
		transactor,
		currencies,
		rates,
		addrSource,
		cfg.Engine.WithdrawalDelay,
		log,
	)
	exchangeSvc := service.NewExchangeService(
		walletRepo,
		txRepo,
		transactor,
		currencies,
		rates,
		decimal.NewFromFloat(cfg.Engine.FeeRate),
		cfg.Engine.QuoteTTL,
		log,
	)
	treasurySvc := service.NewTreasuryService(treasuryRepo, txRepo, transactor, cfg.Engine.WithdrawalDelay, log)

	// Seed the directory, treasury and demo ledgers
	seeder := service.NewSeeder(identityRepo, treasuryRepo, hashSvc, ledgerSvc, log)
	if err := seeder.Run(ctx, seedUsers(), cfg.Seed.Password, seedTreasury(cfg), cfg.Seed.Demo); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed data")
	}
	log.Info().Msg("Ledger seeded")

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:     authSvc,
		LedgerSvc:   ledgerSvc,
		ExchangeSvc: exchangeSvc,
		TreasurySvc: treasurySvc,
		TokenSvc:    tokenSvc,
		Gate:        service.NewLatencyGate(cfg.Engine.Latency),
		Logger:      log,
	})

	// HTTP Server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// seedUsers returns the fixed directory. The account list is part of the
// product: there is no registration surface.
func seedUsers() []service.SeedUser {
	return []service.SeedUser{
		{Email: "admin@hydra.io", Role: domain.RoleAdmin},
		{Email: "user@hydra.io", Role: domain.RoleUser},
	}
}

// seedTreasury maps configured system wallets, falling back to the demo
// pair when the config lists none.
func seedTreasury(cfg *config.Config) []service.SeedTreasury {
	if len(cfg.Treasury) == 0 {
		return []service.SeedTreasury{
			{
				Currency:    "USD",
				HotBalance:  decimal.NewFromFloat(150234.88),
				ColdBalance: decimal.NewFromFloat(1200000),
				Address:     "CashApp Hot Wallet",
			},
			{
				Currency:    "USDT",
				HotBalance:  decimal.NewFromFloat(345890.12),
				ColdBalance: decimal.NewFromFloat(2500000),
				Address:     "TWdjuvPseXhN29KMYGdARD8Ep6kohotwallet",
			},
		}
	}

	out := make([]service.SeedTreasury, 0, len(cfg.Treasury))
	for _, t := range cfg.Treasury {
		out = append(out, service.SeedTreasury{
			Currency:    t.Currency,
			HotBalance:  decimal.NewFromFloat(t.HotBalance),
			ColdBalance: decimal.NewFromFloat(t.ColdBalance),
			Address:     t.Address,
		})
	}
	return out
}
