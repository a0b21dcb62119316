package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies is the registry of supported currency codes, split by rail:
// fiat deposits arrive via the cash leg, crypto currencies support
// on-chain deposit addresses.
type Currencies struct {
	fiat   map[string]bool
	crypto map[string]bool
}

// NewCurrencies builds a registry from code lists. Codes are normalized
// to upper case.
func NewCurrencies(fiat, crypto []string) *Currencies {
	c := &Currencies{
		fiat:   make(map[string]bool, len(fiat)),
		crypto: make(map[string]bool, len(crypto)),
	}
	for _, code := range fiat {
		c.fiat[strings.ToUpper(code)] = true
	}
	for _, code := range crypto {
		c.crypto[strings.ToUpper(code)] = true
	}
	return c
}

// Supported reports whether the code is a known currency.
func (c *Currencies) Supported(code string) bool {
	return c.fiat[code] || c.crypto[code]
}

// IsCrypto reports whether the code supports on-chain deposit addresses.
func (c *Currencies) IsCrypto(code string) bool {
	return c.crypto[code]
}

// RateTable is a fixed bidirectional exchange-rate table keyed by ordered
// currency pair. The demo ships USD/USDT both ways; the table itself is
// N x N capable.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// NewRateTable builds a table from "FROM/TO" pair keys. Keys are
// normalized to upper case (viper lowercases map keys).
func NewRateTable(pairs map[string]float64) *RateTable {
	t := &RateTable{rates: make(map[string]decimal.Decimal, len(pairs))}
	for pair, rate := range pairs {
		t.rates[strings.ToUpper(pair)] = decimal.NewFromFloat(rate)
	}
	return t
}

// Rate returns the conversion rate for the ordered pair (from, to).
func (t *RateTable) Rate(from, to string) (decimal.Decimal, bool) {
	rate, ok := t.rates[from+"/"+to]
	return rate, ok
}
