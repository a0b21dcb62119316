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

// ExchangeServiceImpl implements ports.ExchangeService against the fixed
// rate table. Quotes are stateless: the server recomputes the conversion
// at execute time and only honors requests whose quote timestamp is still
// inside the TTL window.
type ExchangeServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.Transactor
	currencies *Currencies
	rates      *RateTable
	feeRate    decimal.Decimal
	quoteTTL   time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// NewExchangeService creates a new ExchangeServiceImpl.
func NewExchangeService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.Transactor,
	currencies *Currencies,
	rates *RateTable,
	feeRate decimal.Decimal,
	quoteTTL time.Duration,
	log zerolog.Logger,
) *ExchangeServiceImpl {
	return &ExchangeServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		currencies: currencies,
		rates:      rates,
		feeRate:    feeRate,
		quoteTTL:   quoteTTL,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Quote prices a conversion without touching any balance. The fee is
// taken from the source amount before the rate applies.
func (s *ExchangeServiceImpl) Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*domain.ExchangeQuote, error) {
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if !s.currencies.Supported(from) {
		return nil, apperror.ErrUnsupportedCurrency(from)
	}
	if !s.currencies.Supported(to) {
		return nil, apperror.ErrUnsupportedCurrency(to)
	}
	if from == to {
		return nil, apperror.Validation("source and target currency must differ")
	}

	rate, ok := s.rates.Rate(from, to)
	if !ok {
		return nil, apperror.ErrUnsupportedCurrency(fmt.Sprintf("%s/%s", from, to))
	}

	fee := amount.Mul(s.feeRate)
	toAmount := amount.Sub(fee).Mul(rate)
	if toAmount.IsNegative() {
		toAmount = decimal.Zero
	}

	now := s.now()
	return &domain.ExchangeQuote{
		FromCurrency: from,
		ToCurrency:   to,
		FromAmount:   amount,
		Rate:         rate,
		FeeAmount:    fee,
		ToAmount:     toAmount,
		QuotedAt:     now,
		ExpiresAt:    now.Add(s.quoteTTL),
	}, nil
}

// Execute performs the conversion atomically: the source debit, the
// target credit and both log entries commit together or not at all.
func (s *ExchangeServiceImpl) Execute(ctx context.Context, req ports.ExecuteExchangeRequest) (*ports.ExchangeResult, error) {
	if req.QuotedAt != nil && s.now().Sub(*req.QuotedAt) > s.quoteTTL {
		return nil, apperror.ErrQuoteExpired()
	}

	quote, err := s.Quote(ctx, req.FromCurrency, req.ToCurrency, req.FromAmount)
	if err != nil {
		return nil, err
	}

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	source, err := s.walletRepo.GetByOwnerCurrencyForUpdate(ctx, tx, req.UserID, req.FromCurrency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock source wallet: %w", err))
	}
	if source == nil || !source.CanCover(req.FromAmount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	target, err := s.walletRepo.GetByOwnerCurrencyForUpdate(ctx, tx, req.UserID, req.ToCurrency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock target wallet: %w", err))
	}
	if target == nil {
		now := s.now()
		target = &domain.Wallet{
			ID:        uuid.New(),
			OwnerID:   req.UserID,
			Currency:  req.ToCurrency,
			Balance:   decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.walletRepo.Create(ctx, tx, target); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create target wallet: %w", err))
		}
	}

	if err := s.walletRepo.UpdateBalance(ctx, tx, source.ID, source.Balance.Sub(req.FromAmount)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit source: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, tx, target.ID, target.Balance.Add(quote.ToAmount)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit target: %w", err))
	}

	now := s.now()
	details := fmt.Sprintf("%s to %s", req.FromCurrency, req.ToCurrency)
	out := &domain.Transaction{
		ID:            uuid.New(),
		OwnerID:       req.UserID,
		Type:          domain.TransactionTypeExchangeOut,
		Currency:      req.FromCurrency,
		Amount:        req.FromAmount.Neg(),
		Status:        domain.TransactionStatusCompleted,
		Details:       details,
		CreatedAt:     now,
		SettledAt:     &now,
		LedgerApplied: true,
	}
	in := &domain.Transaction{
		ID:            uuid.New(),
		OwnerID:       req.UserID,
		Type:          domain.TransactionTypeExchangeIn,
		Currency:      req.ToCurrency,
		Amount:        quote.ToAmount,
		Status:        domain.TransactionStatusCompleted,
		Details:       details,
		CreatedAt:     now,
		SettledAt:     &now,
		LedgerApplied: true,
	}
	if err := s.txRepo.Append(ctx, tx, out); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append out leg: %w", err))
	}
	if err := s.txRepo.Append(ctx, tx, in); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("append in leg: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("user_id", req.UserID.String()).
		Str("pair", details).
		Str("from_amount", req.FromAmount.String()).
		Str("to_amount", quote.ToAmount.String()).
		Msg("exchange executed")

	return &ports.ExchangeResult{Out: *out, In: *in, Quote: *quote}, nil
}
