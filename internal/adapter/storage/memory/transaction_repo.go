package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository over the Store.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Append inserts a transaction inside a Tx. Timestamps are clamped so
// they are monotonically non-decreasing in log order.
func (r *TransactionRepo) Append(ctx context.Context, tx ports.Tx, t *domain.Transaction) error {
	mtx, err := r.store.tx(tx)
	if err != nil {
		return err
	}
	if _, exists := r.store.transactions[t.ID]; exists {
		return fmt.Errorf("transaction %s already exists", t.ID)
	}

	prevLast := r.store.lastTxTime
	if t.CreatedAt.Before(prevLast) {
		t.CreatedAt = prevLast
	}
	r.store.lastTxTime = t.CreatedAt

	cp := *t
	r.store.transactions[t.ID] = &cp
	r.store.txOrder = append(r.store.txOrder, t.ID)

	mtx.onRollback(func() {
		delete(r.store.transactions, t.ID)
		r.store.txOrder = r.store.txOrder[:len(r.store.txOrder)-1]
		r.store.lastTxTime = prevLast
	})
	return nil
}

// GetByID returns a transaction or (nil, nil) when absent.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.lookup(id), nil
}

// GetByIDForUpdate is the in-Tx variant of GetByID.
func (r *TransactionRepo) GetByIDForUpdate(ctx context.Context, tx ports.Tx, id uuid.UUID) (*domain.Transaction, error) {
	if _, err := r.store.tx(tx); err != nil {
		return nil, err
	}
	return r.lookup(id), nil
}

func (r *TransactionRepo) lookup(id uuid.UUID) *domain.Transaction {
	t, ok := r.store.transactions[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

// MarkSettled applies the single allowed status mutation inside a Tx.
func (r *TransactionRepo) MarkSettled(ctx context.Context, tx ports.Tx, id uuid.UUID, status domain.TransactionStatus, settledAt time.Time, ledgerApplied bool) error {
	mtx, err := r.store.tx(tx)
	if err != nil {
		return err
	}

	t, ok := r.store.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}

	prevStatus, prevSettled, prevApplied := t.Status, t.SettledAt, t.LedgerApplied
	mtx.onRollback(func() {
		t.Status, t.SettledAt, t.LedgerApplied = prevStatus, prevSettled, prevApplied
	})

	t.Status = status
	t.SettledAt = &settledAt
	t.LedgerApplied = ledgerApplied
	return nil
}

// ListByOwner returns the owner's transactions newest first; entries with
// equal timestamps keep their insertion order.
func (r *TransactionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []domain.Transaction
	for _, id := range r.store.txOrder {
		t := r.store.transactions[id]
		if t.OwnerID == ownerID {
			result = append(result, *t)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if offset >= len(result) {
		return []domain.Transaction{}, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// Sum totals signed amounts for (owner, currency) with the given status.
func (r *TransactionRepo) Sum(ctx context.Context, ownerID uuid.UUID, currency string, status domain.TransactionStatus) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	total := decimal.Zero
	for _, t := range r.store.transactions {
		if t.OwnerID == ownerID && t.Currency == currency && t.Status == status {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}
