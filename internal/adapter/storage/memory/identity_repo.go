package memory

import (
	"context"
	"fmt"

	"hydra-ledger/internal/core/domain"
)

// IdentityRepo implements ports.IdentityRepository over the Store.
type IdentityRepo struct {
	store *Store
}

// NewIdentityRepo creates a new IdentityRepo.
func NewIdentityRepo(store *Store) *IdentityRepo {
	return &IdentityRepo{store: store}
}

// Create registers a directory identity. Directory writes happen only at
// boot, outside ledger commits, so they lock directly.
func (r *IdentityRepo) Create(ctx context.Context, identity *domain.Identity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.identities[identity.Email]; exists {
		return fmt.Errorf("identity %q already exists", identity.Email)
	}
	cp := *identity
	r.store.identities[identity.Email] = &cp
	return nil
}

// GetByEmail resolves an identity. Lookup is case-sensitive; a missing
// identity returns (nil, nil).
func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.identities[email]
	if !ok {
		return nil, nil
	}
	cp := *id
	return &cp, nil
}
