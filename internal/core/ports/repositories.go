package ports

import (
	"context"
	"time"

	"hydra-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tx is a unit-of-work handle. Mutating repository methods run inside a
// Tx so that multi-wallet commits (e.g. both exchange legs) become
// visible to readers atomically.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Transactor provides ledger transaction management.
type Transactor interface {
	Begin(ctx context.Context) (Tx, error)
}

// IdentityRepository defines the fixed account directory.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

// WalletRepository defines persistence operations for wallets.
// ForUpdate variants are used inside Tx blocks where the caller already
// holds the commit scope.
type WalletRepository interface {
	Create(ctx context.Context, tx Tx, wallet *domain.Wallet) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error)
	GetByOwnerCurrency(ctx context.Context, ownerID uuid.UUID, currency string) (*domain.Wallet, error)
	GetByOwnerCurrencyForUpdate(ctx context.Context, tx Tx, ownerID uuid.UUID, currency string) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx Tx, walletID uuid.UUID, balance decimal.Decimal) error
	SetDepositAddress(ctx context.Context, tx Tx, walletID uuid.UUID, address string) error
}

// TransactionRepository defines the append-only transaction log.
type TransactionRepository interface {
	Append(ctx context.Context, tx Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id uuid.UUID) (*domain.Transaction, error)
	// MarkSettled performs the one allowed mutation: Pending -> terminal.
	MarkSettled(ctx context.Context, tx Tx, id uuid.UUID, status domain.TransactionStatus, settledAt time.Time, ledgerApplied bool) error
	// ListByOwner returns entries newest first, ties broken by insertion
	// order. limit <= 0 means no limit.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	// Sum totals signed amounts for (owner, currency) filtered by status.
	Sum(ctx context.Context, ownerID uuid.UUID, currency string, status domain.TransactionStatus) (decimal.Decimal, error)
}

// TreasuryRepository defines persistence for system-wide hot/cold wallets.
type TreasuryRepository interface {
	Create(ctx context.Context, snapshot *domain.TreasurySnapshot) error
	List(ctx context.Context) ([]domain.TreasurySnapshot, error)
	GetByCurrencyForUpdate(ctx context.Context, tx Tx, currency string) (*domain.TreasurySnapshot, error)
	UpdateHotBalance(ctx context.Context, tx Tx, currency string, hot decimal.Decimal) error
}
