package dto

import (
	"time"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"
)

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string       `json:"token"`
	Expiry int64        `json:"expiry"` // Unix timestamp
	User   UserResponse `json:"user"`
}

// UserResponse is the public view of a directory account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// DepositRequest is the request body for a deposit. Currency defaults to
// USD when omitted, matching the cash deposit flow.
type DepositRequest struct {
	Currency string  `json:"currency" binding:"omitempty,currency_code"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Details  string  `json:"details" binding:"omitempty,max=200"`
}

// WithdrawRequest is the request body for a withdrawal.
type WithdrawRequest struct {
	Currency string  `json:"currency" binding:"required,currency_code"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Details  string  `json:"details" binding:"omitempty,max=200"`
}

// DepositAddressRequest is the request body for address generation.
type DepositAddressRequest struct {
	Currency string `json:"currency" binding:"required,currency_code"`
}

// DepositAddressResponse carries the assigned on-chain address.
type DepositAddressResponse struct {
	Currency string `json:"currency"`
	Address  string `json:"address"`
}

// ExchangeRequest is the request body for exchange execution. QuotedAt
// is the timestamp of the quote the client is acting on.
type ExchangeRequest struct {
	FromCurrency string     `json:"from_currency" binding:"required,currency_code"`
	ToCurrency   string     `json:"to_currency" binding:"required,currency_code"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
	QuotedAt     *time.Time `json:"quoted_at,omitempty"`
}

// SettleRequest is the request body for driving a Pending transaction to
// a terminal outcome.
type SettleRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=Completed Failed"`
}

// AdminWithdrawRequest is the request body for a treasury payout.
type AdminWithdrawRequest struct {
	Currency           string  `json:"currency" binding:"required,currency_code"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
	DestinationAddress string  `json:"destination_address" binding:"required,max=100"`
}

// WalletResponse is the public view of a wallet.
type WalletResponse struct {
	ID             string  `json:"id"`
	Currency       string  `json:"currency"`
	Balance        string  `json:"balance"`
	DepositAddress *string `json:"deposit_address,omitempty"`
}

// TransactionResponse is the public view of a log entry. Amounts are
// decimal strings; negative means funds left the wallet.
type TransactionResponse struct {
	ID                  string  `json:"id"`
	Type                string  `json:"type"`
	Currency            string  `json:"currency"`
	Amount              string  `json:"amount"`
	Status              string  `json:"status"`
	Details             string  `json:"details,omitempty"`
	CreatedAt           string  `json:"created_at"`
	EstimatedCompletion *string `json:"estimated_completion,omitempty"`
	SettledAt           *string `json:"settled_at,omitempty"`
}

// QuoteResponse is the public view of an exchange quote.
type QuoteResponse struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	FromAmount   string `json:"from_amount"`
	Rate         string `json:"rate"`
	FeeAmount    string `json:"fee_amount"`
	ToAmount     string `json:"to_amount"`
	QuotedAt     string `json:"quoted_at"`
	ExpiresAt    string `json:"expires_at"`
}

// ExchangeResponse pairs both legs of an executed exchange with the
// quote that priced it.
type ExchangeResponse struct {
	Out   TransactionResponse `json:"out"`
	In    TransactionResponse `json:"in"`
	Quote QuoteResponse       `json:"quote"`
}

// OverviewResponse is the dashboard aggregate.
type OverviewResponse struct {
	Wallets      []WalletResponse      `json:"wallets"`
	Transactions []TransactionResponse `json:"transactions"`
	TotalUSD     string                `json:"total_usd"`
}

// TransactionListResponse wraps a paginated transaction page.
type TransactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// TreasuryResponse is the admin view of one system wallet pair.
type TreasuryResponse struct {
	Currency     string `json:"currency"`
	HotBalance   string `json:"hot_balance"`
	ColdBalance  string `json:"cold_balance"`
	TotalBalance string `json:"total_balance"`
	Address      string `json:"address"`
}

// FromUser maps a domain user to its response shape.
func FromUser(u domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// FromWallet maps a domain wallet to its response shape.
func FromWallet(w domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:             w.ID.String(),
		Currency:       w.Currency,
		Balance:        w.Balance.String(),
		DepositAddress: w.DepositAddress,
	}
}

// FromWallets maps a wallet slice, never returning nil.
func FromWallets(wallets []domain.Wallet) []WalletResponse {
	out := make([]WalletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, FromWallet(w))
	}
	return out
}

// FromTransaction maps a domain transaction to its response shape.
func FromTransaction(t domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:        t.ID.String(),
		Type:      string(t.Type),
		Currency:  t.Currency,
		Amount:    t.Amount.String(),
		Status:    string(t.Status),
		Details:   t.Details,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.EstimatedCompletion != nil {
		s := t.EstimatedCompletion.UTC().Format(time.RFC3339)
		resp.EstimatedCompletion = &s
	}
	if t.SettledAt != nil {
		s := t.SettledAt.UTC().Format(time.RFC3339)
		resp.SettledAt = &s
	}
	return resp
}

// FromTransactions maps a transaction slice, never returning nil.
func FromTransactions(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, FromTransaction(t))
	}
	return out
}

// FromQuote maps a domain quote to its response shape.
func FromQuote(q domain.ExchangeQuote) QuoteResponse {
	return QuoteResponse{
		FromCurrency: q.FromCurrency,
		ToCurrency:   q.ToCurrency,
		FromAmount:   q.FromAmount.String(),
		Rate:         q.Rate.String(),
		FeeAmount:    q.FeeAmount.String(),
		ToAmount:     q.ToAmount.String(),
		QuotedAt:     q.QuotedAt.UTC().Format(time.RFC3339),
		ExpiresAt:    q.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// FromOverview maps the dashboard aggregate.
func FromOverview(o *ports.Overview) OverviewResponse {
	return OverviewResponse{
		Wallets:      FromWallets(o.Wallets),
		Transactions: FromTransactions(o.Transactions),
		TotalUSD:     o.TotalUSD.String(),
	}
}

// FromTreasury maps a treasury snapshot to its admin view.
func FromTreasury(s domain.TreasurySnapshot) TreasuryResponse {
	return TreasuryResponse{
		Currency:     s.Currency,
		HotBalance:   s.HotBalance.String(),
		ColdBalance:  s.ColdBalance.String(),
		TotalBalance: s.TotalBalance().String(),
		Address:      s.Address,
	}
}

// FromTreasuries maps a snapshot slice, never returning nil.
func FromTreasuries(snaps []domain.TreasurySnapshot) []TreasuryResponse {
	out := make([]TreasuryResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, FromTreasury(s))
	}
	return out
}
