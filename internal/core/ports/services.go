package ports

import (
	"context"
	"time"

	"hydra-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the HTTP boundary.
type TokenService interface {
	Generate(user *domain.User) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   domain.Role
}

// AddressSource produces deposit addresses. Implementations are expected
// to be deterministic under a fixed seed so demo state is reproducible.
type AddressSource interface {
	NewAddress(currency string) string
}

// --- Service Ports (Business Logic) ---

// AuthService resolves credentials against the account directory.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

// LoginResult is the session handed to the presentation layer.
type LoginResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// LedgerService owns wallet balances and the transaction log.
type LedgerService interface {
	GetWallets(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
	EnsureWallet(ctx context.Context, userID uuid.UUID, currency string) (*domain.Wallet, error)
	GenerateDepositAddress(ctx context.Context, userID uuid.UUID, currency string) (string, error)
	Deposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error)
	// Settle drives a Pending transaction to a terminal outcome. Called by
	// an external scheduler, never by an internal timer.
	Settle(ctx context.Context, txID uuid.UUID, outcome domain.TransactionStatus) (*domain.Transaction, error)
}

// Overview is the aggregate the dashboard renders after login.
type Overview struct {
	Wallets      []domain.Wallet      `json:"wallets"`
	Transactions []domain.Transaction `json:"transactions"`
	TotalUSD     decimal.Decimal      `json:"total_usd"`
}

// DepositRequest holds validated input for a deposit.
type DepositRequest struct {
	UserID   uuid.UUID
	Currency string
	Amount   decimal.Decimal
	Details  string
}

// WithdrawRequest holds validated input for a withdrawal.
type WithdrawRequest struct {
	UserID   uuid.UUID
	Currency string
	Amount   decimal.Decimal
	Details  string
}

// ExchangeService computes quotes and executes currency exchanges.
type ExchangeService interface {
	Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*domain.ExchangeQuote, error)
	Execute(ctx context.Context, req ExecuteExchangeRequest) (*ExchangeResult, error)
}

// ExecuteExchangeRequest holds validated input for exchange execution.
// QuotedAt, when set, is the timestamp of the quote the caller is acting
// on; execution past the validity window is rejected.
type ExecuteExchangeRequest struct {
	UserID       uuid.UUID
	FromCurrency string
	ToCurrency   string
	FromAmount   decimal.Decimal
	QuotedAt     *time.Time
}

// ExchangeResult pairs the two legs of an executed exchange.
type ExchangeResult struct {
	Out   domain.Transaction   `json:"out"`
	In    domain.Transaction   `json:"in"`
	Quote domain.ExchangeQuote `json:"quote"`
}

// TreasuryService is the admin-facing view over system wallets.
type TreasuryService interface {
	Snapshot(ctx context.Context) ([]domain.TreasurySnapshot, error)
	AdminWithdraw(ctx context.Context, req AdminWithdrawRequest) (*domain.Transaction, error)
	Withdrawals(ctx context.Context) ([]domain.Transaction, error)
}

// AdminWithdrawRequest holds validated input for a treasury payout.
type AdminWithdrawRequest struct {
	Currency           string
	Amount             decimal.Decimal
	DestinationAddress string
}
