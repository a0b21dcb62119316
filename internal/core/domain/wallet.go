package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a single (owner, currency) balance. At most one wallet
// exists per pair; the balance is mutated only through ledger-mediated
// operations and never goes negative.
type Wallet struct {
	ID             uuid.UUID       `json:"id"`
	OwnerID        uuid.UUID       `json:"owner_id"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	DepositAddress *string         `json:"deposit_address,omitempty"` // on-chain rails only
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanCover reports whether the wallet balance covers the given amount.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
