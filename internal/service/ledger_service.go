package service

import (
	"context"
	"fmt"
	"time"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"
	"hydra-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerServiceImpl implements ports.LedgerService. All balance mutations
// run inside a Transactor commit, so the insufficient-funds check and the
// balance write are observed atomically and readers never see a partial
// commit.
type LedgerServiceImpl struct {
	walletRepo      ports.WalletRepository
	txRepo          ports.TransactionRepository
	treasuryRepo    ports.TreasuryRepository
	transactor      ports.Transactor
	currencies      *Currencies
	rates           *RateTable
	addrSource      ports.AddressSource
	withdrawalDelay time.Duration
	log             zerolog.Logger
	now             func() time.Time
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	treasuryRepo ports.TreasuryRepository,
	transactor ports.Transactor,
	currencies *Currencies,
	rates *RateTable,
	addrSource ports.AddressSource,
	withdrawalDelay time.Duration,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo:      walletRepo,
		txRepo:          txRepo,
		treasuryRepo:    treasuryRepo,
		transactor:      transactor,
		currencies:      currencies,
		rates:           rates,
		addrSource:      addrSource,
		withdrawalDelay: withdrawalDelay,
		log:             log,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// GetWallets returns the user's wallets in insertion order.
func (s *LedgerServiceImpl) GetWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	if wallets == nil {
		wallets = []domain.Wallet{}
	}
	return wallets, nil
}

// ListTransactions returns the user's log entries, newest first.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByOwner(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// Overview returns the dashboard aggregate: wallets, recent activity and
// the USD-normalized total computed from the fixed rate table.
func (s *LedgerServiceImpl) Overview(ctx context.Context, userID uuid.UUID) (*ports.Overview, error) {
	wallets, err := s.GetWallets(ctx, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.ListTransactions(ctx, userID, 10, 0)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, w := range wallets {
		if w.Currency == "USD" {
			total = total.Add(w.Balance)
			continue
		}
		if rate, ok := s.rates.Rate(w.Currency, "USD"); ok {
			total = total.Add(w.Balance.Mul(rate))
		}
	}

	return &ports.Overview{
		Wallets:      wallets,
		Transactions: txns,
		TotalUSD:     total,
	}, nil
}

// EnsureWallet idempotently creates a zero-balance wallet for the pair.
func (s *LedgerServiceImpl) EnsureWallet(ctx context.Context, userID uuid.UUID, currency string) (*domain.Wallet, error) {
	if !s.currencies.Supported(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.ensureWalletTx(ctx, tx, userID, currency)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return wallet, nil
}

// ensureWalletTx returns the (owner, currency) wallet, creating it inside
// the given Tx when absent.
func (s *LedgerServiceImpl) ensureWalletTx(ctx context.Context, tx ports.Tx, userID uuid.UUID, currency string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByOwnerCurrencyForUpdate(ctx, tx, userID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet != nil {
		return wallet, nil
	}

	now := s.now()
	wallet = &domain.Wallet{
		ID:        uuid.New(),
		OwnerID:   userID,
		Currency:  currency,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, tx, wallet); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}
	return wallet, nil
}

// GenerateDepositAddress assigns an on-chain deposit address to the
// wallet. Generation is idempotent per wallet: the first address sticks,
// so no deposit ever lands on an orphaned address.
func (s *LedgerServiceImpl) GenerateDepositAddress(ctx context.Context, userID uuid.UUID, currency string) (string, error) {
	if !s.currencies.IsCrypto(currency) {
		return "", apperror.ErrUnsupportedCurrency(currency)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.ensureWalletTx(ctx, tx, userID, currency)
	if err != nil {
		return "", err
	}
	if wallet.DepositAddress != nil {
		if err := tx.Commit(ctx); err != nil {
			return "", apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		return *wallet.DepositAddress, nil
	}

	address := s.addrSource.NewAddress(currency)
	if err := s.walletRepo.SetDepositAddress(ctx, tx, wallet.ID, address); err != nil {
		return "", apperror.InternalError(fmt.Errorf("set deposit address: %w", err))
	}
	if err := tx.Commit(ctx); err != nil {
		return "", apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().Str("user_id", userID.String()).Str("currency", currency).Msg("deposit address generated")
	return address, nil
}

// Deposit credits the wallet and records a Completed entry. Deposits
// settle instantly in this simulation.
func (s *LedgerServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !s.currencies.Supported(req.Currency) {
		return nil, apperror.ErrUnsupportedCurrency(req.Currency)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.ensureWalletTx(ctx, tx, req.UserID, req.Currency)
	if err != nil {
		return nil, err
	}

	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.Balance.Add(req.Amount)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	now := s.now()
	txn := &domain.Transaction{
		ID:            uuid.New(),
		OwnerID:       req.UserID,
		Type:          domain.TransactionTypeDeposit,
		Currency:      req.Currency,
		Amount:        req.Amount,
		Status:        domain.TransactionStatusCompleted,
		Details:       req.Details,
		CreatedAt:     now,
		SettledAt:     &now,
		LedgerApplied: true,
	}
	if err := s.txRepo.Append(ctx, tx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append transaction: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("currency", req.Currency).
		Str("amount", req.Amount.String()).
		Msg("deposit completed")

	return txn, nil
}

// Withdraw records a Pending withdrawal. The funds check happens now;
// the debit itself is applied when an external scheduler settles the
// entry, keeping balances equal to the sum of Completed amounts at every
// observation point.
func (s *LedgerServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !s.currencies.Supported(req.Currency) {
		return nil, apperror.ErrUnsupportedCurrency(req.Currency)
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByOwnerCurrencyForUpdate(ctx, tx, req.UserID, req.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil || !wallet.CanCover(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := s.now()
	estimated := now.Add(s.withdrawalDelay)
	txn := &domain.Transaction{
		ID:                  uuid.New(),
		OwnerID:             req.UserID,
		Type:                domain.TransactionTypeWithdrawal,
		Currency:            req.Currency,
		Amount:              req.Amount.Neg(),
		Status:              domain.TransactionStatusPending,
		Details:             req.Details,
		CreatedAt:           now,
		EstimatedCompletion: &estimated,
	}
	if err := s.txRepo.Append(ctx, tx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append transaction: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("currency", req.Currency).
		Str("amount", req.Amount.String()).
		Time("estimated_completion", estimated).
		Msg("withdrawal initiated")

	return txn, nil
}

// Settle drives a Pending entry to its terminal outcome, applying or
// reverting the ledger effect exactly once. A repeated settle fails with
// AlreadySettled and has no balance effect.
func (s *LedgerServiceImpl) Settle(ctx context.Context, txID uuid.UUID, outcome domain.TransactionStatus) (*domain.Transaction, error) {
	if outcome != domain.TransactionStatusCompleted && outcome != domain.TransactionStatusFailed {
		return nil, apperror.Validation("outcome must be Completed or Failed")
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	entry, err := s.txRepo.GetByIDForUpdate(ctx, tx, txID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock transaction: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if entry.Status != domain.TransactionStatusPending {
		return nil, apperror.ErrAlreadySettled()
	}

	switch {
	case outcome == domain.TransactionStatusCompleted && !entry.LedgerApplied:
		if err := s.applyEffect(ctx, tx, entry); err != nil {
			return nil, err
		}
	case outcome == domain.TransactionStatusFailed && entry.LedgerApplied:
		if err := s.revertEffect(ctx, tx, entry); err != nil {
			return nil, err
		}
	}

	settledAt := s.now()
	applied := outcome == domain.TransactionStatusCompleted
	if err := s.txRepo.MarkSettled(ctx, tx, txID, outcome, settledAt, applied); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("mark settled: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txID.String()).
		Str("outcome", string(outcome)).
		Msg("transaction settled")

	settled := *entry
	settled.Status = outcome
	settled.SettledAt = &settledAt
	settled.LedgerApplied = applied
	return &settled, nil
}

// applyEffect applies the entry's signed amount to its balance holder.
func (s *LedgerServiceImpl) applyEffect(ctx context.Context, tx ports.Tx, entry *domain.Transaction) error {
	if entry.Type == domain.TransactionTypeAdminWithdrawal {
		// Treasury effect is applied when the payout is initiated.
		return nil
	}

	wallet, err := s.walletRepo.GetByOwnerCurrencyForUpdate(ctx, tx, entry.OwnerID, entry.Currency)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}

	newBalance := wallet.Balance.Add(entry.Amount)
	if newBalance.IsNegative() {
		return apperror.ErrInsufficientFunds()
	}
	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, newBalance); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	return nil
}

// revertEffect undoes an already-applied effect for a Failed outcome.
func (s *LedgerServiceImpl) revertEffect(ctx context.Context, tx ports.Tx, entry *domain.Transaction) error {
	if entry.Type == domain.TransactionTypeAdminWithdrawal {
		snap, err := s.treasuryRepo.GetByCurrencyForUpdate(ctx, tx, entry.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock treasury: %w", err))
		}
		if snap == nil {
			return apperror.ErrNotFound("treasury snapshot")
		}
		// entry.Amount is negative; subtracting restores the hot balance.
		return s.updateHot(ctx, tx, entry.Currency, snap.HotBalance.Sub(entry.Amount))
	}

	wallet, err := s.walletRepo.GetByOwnerCurrencyForUpdate(ctx, tx, entry.OwnerID, entry.Currency)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}
	if err := s.walletRepo.UpdateBalance(ctx, tx, wallet.ID, wallet.Balance.Sub(entry.Amount)); err != nil {
		return apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}
	return nil
}

func (s *LedgerServiceImpl) updateHot(ctx context.Context, tx ports.Tx, currency string, hot decimal.Decimal) error {
	if err := s.treasuryRepo.UpdateHotBalance(ctx, tx, currency, hot); err != nil {
		return apperror.InternalError(fmt.Errorf("update hot balance: %w", err))
	}
	return nil
}
