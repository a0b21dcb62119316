package service

import (
	"math/rand"
	"strings"
	"sync"
)

const addressAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SeededAddressSource implements ports.AddressSource with a seeded RNG so
// demo state is reproducible run to run. Addresses are opaque strings;
// USDT gets the Tron-style "T" prefix the dashboard expects.
type SeededAddressSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededAddressSource creates a source from the given seed.
func NewSeededAddressSource(seed int64) *SeededAddressSource {
	return &SeededAddressSource{rng: rand.New(rand.NewSource(seed))}
}

// NewAddress produces a fresh deposit address for the currency. The
// ledger stores the first address per wallet, so repeated calls for the
// same wallet never reach this method twice.
func (s *SeededAddressSource) NewAddress(currency string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	length := 34
	if currency == "USDT" {
		b.WriteByte('T')
		length = 33
	}
	for i := 0; i < length; i++ {
		b.WriteByte(addressAlphabet[s.rng.Intn(len(addressAlphabet))])
	}
	return b.String()
}
