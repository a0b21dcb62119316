package service

import (
	"context"
	"fmt"
	"time"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SeedUser describes a fixed directory account created at boot.
type SeedUser struct {
	Email string
	Role  domain.Role
}

// SeedTreasury describes a system wallet snapshot created at boot.
type SeedTreasury struct {
	Currency    string
	HotBalance  decimal.Decimal
	ColdBalance decimal.Decimal
	Address     string
}

// Seeder populates the directory, treasury and demo ledgers at startup.
// Demo history is written through the ledger service itself, so seeded
// balances satisfy the same conservation rule as live traffic.
type Seeder struct {
	identityRepo ports.IdentityRepository
	treasuryRepo ports.TreasuryRepository
	hashSvc      ports.HashService
	ledger       *LedgerServiceImpl
	log          zerolog.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(
	identityRepo ports.IdentityRepository,
	treasuryRepo ports.TreasuryRepository,
	hashSvc ports.HashService,
	ledger *LedgerServiceImpl,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		identityRepo: identityRepo,
		treasuryRepo: treasuryRepo,
		hashSvc:      hashSvc,
		ledger:       ledger,
		log:          log,
	}
}

// Run creates the given accounts and treasury snapshots, then writes the
// demo ledger history for each account. password is shared by all seeded
// accounts and hashed once.
func (s *Seeder) Run(ctx context.Context, users []SeedUser, password string, treasury []SeedTreasury, demo bool) error {
	hash, err := s.hashSvc.Hash(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	var created []domain.Identity
	for _, u := range users {
		identity := domain.Identity{
			User: domain.User{
				ID:    uuid.New(),
				Email: u.Email,
				Role:  u.Role,
			},
			PasswordHash: hash,
		}
		if err := s.identityRepo.Create(ctx, &identity); err != nil {
			return fmt.Errorf("seed account %s: %w", u.Email, err)
		}
		created = append(created, identity)
	}

	for _, t := range treasury {
		snap := domain.TreasurySnapshot{
			Currency:    t.Currency,
			HotBalance:  t.HotBalance,
			ColdBalance: t.ColdBalance,
			Address:     t.Address,
		}
		if err := s.treasuryRepo.Create(ctx, &snap); err != nil {
			return fmt.Errorf("seed treasury %s: %w", t.Currency, err)
		}
	}

	if demo {
		for _, identity := range created {
			if err := s.seedHistory(ctx, identity.User.ID); err != nil {
				return fmt.Errorf("seed history for %s: %w", identity.User.Email, err)
			}
		}
	}

	s.log.Info().
		Int("accounts", len(created)).
		Int("treasury_wallets", len(treasury)).
		Bool("demo", demo).
		Msg("seed data loaded")
	return nil
}

// seedHistory replays a fixed deposit/withdrawal script against a
// back-dated clock, leaving the account with 1250.75 USD and 5310.50
// USDT plus a matching Completed history.
func (s *Seeder) seedHistory(ctx context.Context, userID uuid.UUID) error {
	realNow := s.ledger.now
	clock := time.Now().UTC().Add(-48 * time.Hour)
	s.ledger.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	defer func() { s.ledger.now = realNow }()

	steps := []struct {
		withdraw bool
		currency string
		amount   string
		details  string
	}{
		{false, "USD", "1000", "Cash App Deposit"},
		{false, "USDT", "3000", "Crypto Deposit"},
		{false, "USD", "750.75", "Cash App Deposit"},
		{true, "USD", "500", "to linked bank"},
		{false, "USDT", "2560.50", "Crypto Deposit"},
		{true, "USDT", "250", "to linked bank"},
	}

	for _, step := range steps {
		amount, err := decimal.NewFromString(step.amount)
		if err != nil {
			return fmt.Errorf("parse seed amount %q: %w", step.amount, err)
		}
		if step.withdraw {
			txn, err := s.ledger.Withdraw(ctx, ports.WithdrawRequest{
				UserID:   userID,
				Currency: step.currency,
				Amount:   amount,
				Details:  step.details,
			})
			if err != nil {
				return err
			}
			if _, err := s.ledger.Settle(ctx, txn.ID, domain.TransactionStatusCompleted); err != nil {
				return err
			}
			continue
		}
		if _, err := s.ledger.Deposit(ctx, ports.DepositRequest{
			UserID:   userID,
			Currency: step.currency,
			Amount:   amount,
			Details:  step.details,
		}); err != nil {
			return err
		}
	}

	if _, err := s.ledger.GenerateDepositAddress(ctx, userID, "USDT"); err != nil {
		return err
	}
	return nil
}
