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
)

// TreasuryServiceImpl implements ports.TreasuryService. Admin payouts are
// booked against a synthetic treasury owner so they share the transaction
// log and settlement path with user withdrawals.
type TreasuryServiceImpl struct {
	treasuryRepo    ports.TreasuryRepository
	txRepo          ports.TransactionRepository
	transactor      ports.Transactor
	ownerID         uuid.UUID
	withdrawalDelay time.Duration
	log             zerolog.Logger
	now             func() time.Time
}

// NewTreasuryService creates a new TreasuryServiceImpl. The treasury
// owner ID is generated at boot and identifies payout entries in the log.
func NewTreasuryService(
	treasuryRepo ports.TreasuryRepository,
	txRepo ports.TransactionRepository,
	transactor ports.Transactor,
	withdrawalDelay time.Duration,
	log zerolog.Logger,
) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{
		treasuryRepo:    treasuryRepo,
		txRepo:          txRepo,
		transactor:      transactor,
		ownerID:         uuid.New(),
		withdrawalDelay: withdrawalDelay,
		log:             log,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Snapshot returns hot and cold balances per currency in seeded order.
func (s *TreasuryServiceImpl) Snapshot(ctx context.Context) ([]domain.TreasurySnapshot, error) {
	snaps, err := s.treasuryRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list treasury: %w", err))
	}
	if snaps == nil {
		snaps = []domain.TreasurySnapshot{}
	}
	return snaps, nil
}

// AdminWithdraw initiates a payout from a hot wallet. The hot balance is
// reserved immediately so concurrent payouts cannot overdraw it; a Failed
// settlement returns the reservation.
func (s *TreasuryServiceImpl) AdminWithdraw(ctx context.Context, req ports.AdminWithdrawRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.DestinationAddress == "" {
		return nil, apperror.Validation("destination address is required")
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	snap, err := s.treasuryRepo.GetByCurrencyForUpdate(ctx, tx, req.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock treasury: %w", err))
	}
	if snap == nil {
		return nil, apperror.ErrUnsupportedCurrency(req.Currency)
	}
	if snap.HotBalance.LessThan(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	if err := s.treasuryRepo.UpdateHotBalance(ctx, tx, req.Currency, snap.HotBalance.Sub(req.Amount)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update hot balance: %w", err))
	}

	now := s.now()
	estimated := now.Add(s.withdrawalDelay)
	txn := &domain.Transaction{
		ID:                  uuid.New(),
		OwnerID:             s.ownerID,
		Type:                domain.TransactionTypeAdminWithdrawal,
		Currency:            req.Currency,
		Amount:              req.Amount.Neg(),
		Status:              domain.TransactionStatusPending,
		Details:             fmt.Sprintf("to %s", req.DestinationAddress),
		CreatedAt:           now,
		EstimatedCompletion: &estimated,
		LedgerApplied:       true,
	}
	if err := s.txRepo.Append(ctx, tx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append transaction: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("currency", req.Currency).
		Str("amount", req.Amount.String()).
		Msg("treasury payout initiated")

	return txn, nil
}

// Withdrawals lists payout entries booked by AdminWithdraw, newest first.
func (s *TreasuryServiceImpl) Withdrawals(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByOwner(ctx, s.ownerID, 0, 0)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list payouts: %w", err))
	}
	return txns, nil
}
