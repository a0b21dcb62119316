package domain

import (
	"github.com/shopspring/decimal"
)

// TreasurySnapshot is the system-wide hot/cold aggregate for one currency.
// Read-mostly; only AdminWithdrawal transactions mutate the hot balance.
type TreasurySnapshot struct {
	Currency    string          `json:"currency"`
	HotBalance  decimal.Decimal `json:"hot_balance"`
	ColdBalance decimal.Decimal `json:"cold_balance"`
	Address     string          `json:"address"` // hot wallet label
}

// TotalBalance is the sum of hot and cold funds.
func (s *TreasurySnapshot) TotalBalance() decimal.Decimal {
	return s.HotBalance.Add(s.ColdBalance)
}
