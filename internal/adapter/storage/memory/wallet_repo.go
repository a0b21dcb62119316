package memory

import (
	"context"
	"fmt"
	"time"

	"hydra-ledger/internal/core/domain"
	"hydra-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletRepo implements ports.WalletRepository over the Store.
type WalletRepo struct {
	store *Store
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(store *Store) *WalletRepo {
	return &WalletRepo{store: store}
}

// Create inserts a wallet inside a Tx. The (owner, currency) pair must
// be unique.
func (r *WalletRepo) Create(ctx context.Context, tx ports.Tx, wallet *domain.Wallet) error {
	mtx, err := r.store.tx(tx)
	if err != nil {
		return err
	}

	key := ownerCurrency{owner: wallet.OwnerID, currency: wallet.Currency}
	if _, exists := r.store.walletByOwner[key]; exists {
		return fmt.Errorf("wallet for (%s, %s) already exists", wallet.OwnerID, wallet.Currency)
	}

	cp := *wallet
	r.store.wallets[wallet.ID] = &cp
	r.store.walletOrder = append(r.store.walletOrder, wallet.ID)
	r.store.walletByOwner[key] = wallet.ID

	mtx.onRollback(func() {
		delete(r.store.wallets, wallet.ID)
		delete(r.store.walletByOwner, key)
		r.store.walletOrder = r.store.walletOrder[:len(r.store.walletOrder)-1]
	})
	return nil
}

// GetByOwner returns the owner's wallets in insertion order.
func (r *WalletRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var result []domain.Wallet
	for _, id := range r.store.walletOrder {
		w := r.store.wallets[id]
		if w.OwnerID == ownerID {
			result = append(result, *w)
		}
	}
	return result, nil
}

// GetByOwnerCurrency returns the wallet for (owner, currency), or
// (nil, nil) when absent.
func (r *WalletRepo) GetByOwnerCurrency(ctx context.Context, ownerID uuid.UUID, currency string) (*domain.Wallet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.lookup(ownerID, currency), nil
}

// GetByOwnerCurrencyForUpdate is the in-Tx variant: the caller already
// holds the commit scope, so no read lock is taken.
func (r *WalletRepo) GetByOwnerCurrencyForUpdate(ctx context.Context, tx ports.Tx, ownerID uuid.UUID, currency string) (*domain.Wallet, error) {
	if _, err := r.store.tx(tx); err != nil {
		return nil, err
	}
	return r.lookup(ownerID, currency), nil
}

func (r *WalletRepo) lookup(ownerID uuid.UUID, currency string) *domain.Wallet {
	id, ok := r.store.walletByOwner[ownerCurrency{owner: ownerID, currency: currency}]
	if !ok {
		return nil
	}
	cp := *r.store.wallets[id]
	return &cp
}

// UpdateBalance sets the wallet balance inside a Tx.
func (r *WalletRepo) UpdateBalance(ctx context.Context, tx ports.Tx, walletID uuid.UUID, balance decimal.Decimal) error {
	mtx, err := r.store.tx(tx)
	if err != nil {
		return err
	}

	w, ok := r.store.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet %s not found", walletID)
	}

	prevBalance, prevUpdated := w.Balance, w.UpdatedAt
	mtx.onRollback(func() {
		w.Balance, w.UpdatedAt = prevBalance, prevUpdated
	})

	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// SetDepositAddress assigns the stable deposit address inside a Tx.
func (r *WalletRepo) SetDepositAddress(ctx context.Context, tx ports.Tx, walletID uuid.UUID, address string) error {
	mtx, err := r.store.tx(tx)
	if err != nil {
		return err
	}

	w, ok := r.store.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet %s not found", walletID)
	}

	prev := w.DepositAddress
	mtx.onRollback(func() { w.DepositAddress = prev })

	w.DepositAddress = &address
	return nil
}
