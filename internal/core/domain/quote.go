package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeQuote is a time-bounded, non-binding computation of a
// prospective exchange outcome. Quotes are never persisted; clients
// re-request on every input change.
type ExchangeQuote struct {
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	FromAmount   decimal.Decimal `json:"from_amount"`
	Rate         decimal.Decimal `json:"rate"`
	FeeAmount    decimal.Decimal `json:"fee_amount"`
	ToAmount     decimal.Decimal `json:"to_amount"`
	QuotedAt     time.Time       `json:"quoted_at"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

// Expired reports whether the quote's validity window has passed.
func (q *ExchangeQuote) Expired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}
