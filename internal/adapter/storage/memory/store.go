// Package memory is the process-lifetime storage adapter. The engine's
// state model is explicitly non-durable, so this adapter is the primary
// one rather than a test fake.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"

	"github.com/google/uuid"
)

var errTxInvalid = errors.New("memory: tx is invalid or already completed")

type ownerCurrency struct {
	owner    uuid.UUID
	currency string
}

// Store holds all engine state behind a single RWMutex. Readers take the
// read lock and always observe fully-committed state; a Tx holds the
// write lock for its whole lifetime, so multi-wallet commits (both
// exchange legs) are atomic with respect to readers.
type Store struct {
	mu sync.RWMutex

	identities map[string]*domain.Identity

	wallets       map[uuid.UUID]*domain.Wallet
	walletOrder   []uuid.UUID
	walletByOwner map[ownerCurrency]uuid.UUID

	transactions map[uuid.UUID]*domain.Transaction
	txOrder      []uuid.UUID
	lastTxTime   time.Time

	treasury      map[string]*domain.TreasurySnapshot
	treasuryOrder []string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		identities:    make(map[string]*domain.Identity),
		wallets:       make(map[uuid.UUID]*domain.Wallet),
		walletByOwner: make(map[ownerCurrency]uuid.UUID),
		transactions:  make(map[uuid.UUID]*domain.Transaction),
		treasury:      make(map[string]*domain.TreasurySnapshot),
	}
}

// tx asserts that the given handle is a live Tx on this store.
func (s *Store) tx(tx ports.Tx) (*memTx, error) {
	mtx, ok := tx.(*memTx)
	if !ok || mtx.store != s || mtx.done {
		return nil, errTxInvalid
	}
	return mtx, nil
}

// memTx implements ports.Tx. It holds the store's write lock from Begin
// until Commit or Rollback and records undo closures for every mutation.
type memTx struct {
	store *Store
	done  bool
	undo  []func()
}

func (t *memTx) onRollback(fn func()) {
	t.undo = append(t.undo, fn)
}

// Commit publishes all mutations and releases the write lock.
func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return errTxInvalid
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Rollback reverts all mutations in reverse order and releases the write
// lock. Rollback after Commit is a no-op, so callers may defer it.
func (t *memTx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.done = true
	t.undo = nil
	t.store.mu.Unlock()
	return nil
}

// Transactor implements ports.Transactor for the in-memory store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a Transactor over the store.
func NewTransactor(store *Store) *Transactor {
	return &Transactor{store: store}
}

// Begin acquires the store's write lock and returns a live Tx. There is
// no cancellation of an in-flight commit once started.
func (t *Transactor) Begin(ctx context.Context) (ports.Tx, error) {
	t.store.mu.Lock()
	return &memTx{store: t.store}, nil
}
