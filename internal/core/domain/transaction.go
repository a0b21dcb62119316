package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "Deposit"
	TransactionTypeWithdrawal      TransactionType = "Withdrawal"
	TransactionTypeExchangeOut     TransactionType = "ExchangeOut"
	TransactionTypeExchangeIn      TransactionType = "ExchangeIn"
	TransactionTypeAdminWithdrawal TransactionType = "AdminWithdrawal"
)

// TransactionStatus represents the lifecycle state of a transaction.
// Pending may transition to Completed or Failed exactly once; both are
// terminal.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFailed    TransactionStatus = "Failed"
)

// Transaction is a ledger entry. Immutable once created except for the
// status transition. Amount is signed: positive inbound, negative outbound.
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	OwnerID   uuid.UUID         `json:"owner_id"`
	Type      TransactionType   `json:"type"`
	Currency  string            `json:"currency"`
	Amount    decimal.Decimal   `json:"amount"`
	Status    TransactionStatus `json:"status"`
	Details   string            `json:"details"`
	CreatedAt time.Time         `json:"created_at"`

	// EstimatedCompletion is set on Pending entries so an external
	// scheduler knows when to drive settlement. The engine itself never
	// runs timers.
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
	SettledAt           *time.Time `json:"settled_at,omitempty"`

	// LedgerApplied records whether the balance effect has been applied,
	// so settlement is exactly-once even on repeated calls.
	LedgerApplied bool `json:"-"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusFailed
}

// Inbound reports whether this entry credits its wallet.
func (t *Transaction) Inbound() bool {
	return t.Amount.IsPositive()
}
