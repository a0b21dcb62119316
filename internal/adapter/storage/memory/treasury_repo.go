package memory

import (
	"context"
	"fmt"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

// TreasuryRepo implements ports.TreasuryRepository over the Store.
type TreasuryRepo struct {
	store *Store
}

// NewTreasuryRepo creates a new TreasuryRepo.
func NewTreasuryRepo(store *Store) *TreasuryRepo {
	return &TreasuryRepo{store: store}
}

// Create seeds a per-currency snapshot. Runs at boot, outside commits.
func (r *TreasuryRepo) Create(ctx context.Context, snapshot *domain.TreasurySnapshot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.treasury[snapshot.Currency]; exists {
		return fmt.Errorf("treasury snapshot for %s already exists", snapshot.Currency)
	}
	cp := *snapshot
	r.store.treasury[snapshot.Currency] = &cp
	r.store.treasuryOrder = append(r.store.treasuryOrder, snapshot.Currency)
	return nil
}

// List returns snapshots in their seeded order.
func (r *TreasuryRepo) List(ctx context.Context) ([]domain.TreasurySnapshot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]domain.TreasurySnapshot, 0, len(r.store.treasuryOrder))
	for _, currency := range r.store.treasuryOrder {
		result = append(result, *r.store.treasury[currency])
	}
	return result, nil
}

// GetByCurrencyForUpdate is the in-Tx read, or (nil, nil) when absent.
func (r *TreasuryRepo) GetByCurrencyForUpdate(ctx context.Context, tx ports.Tx, currency string) (*domain.TreasurySnapshot, error) {
	if _, err := r.store.tx(tx); err != nil {
		return nil, err
	}
	s, ok := r.store.treasury[currency]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// UpdateHotBalance sets the hot balance inside a Tx.
func (r *TreasuryRepo) UpdateHotBalance(ctx context.Context, tx ports.Tx, currency string, hot decimal.Decimal) error {
	mtx, err := r.store.tx(tx)
	if err != nil {
		return err
	}

	s, ok := r.store.treasury[currency]
	if !ok {
		return fmt.Errorf("treasury snapshot for %s not found", currency)
	}

	prev := s.HotBalance
	mtx.onRollback(func() { s.HotBalance = prev })

	s.HotBalance = hot
	return nil
}
