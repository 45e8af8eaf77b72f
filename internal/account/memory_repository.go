package account

import (
	"context"
	"sync"
)

type memoryKey struct {
	kind Kind
	id   string
}

type memoryRepository struct {
	mu       sync.RWMutex
	accounts map[memoryKey]Account
}

// NewMemoryRepository builds an in-memory account store. It enforces the same
// per-kind uniqueness the Postgres indexes do, under a single mutex, so the
// duplicate-insert behavior matches the real store even for concurrent callers.
func NewMemoryRepository() Repository {
	return &memoryRepository{accounts: make(map[memoryKey]Account)}
}

func (r *memoryRepository) Create(_ context.Context, acct Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Kind != acct.Kind {
			continue
		}
		if existing.MobileNumber == acct.MobileNumber || existing.Email == acct.Email {
			return ErrDuplicateAccount
		}
	}
	r.accounts[memoryKey{kind: acct.Kind, id: acct.ID}] = acct
	return nil
}

func (r *memoryRepository) FindByIdentifier(_ context.Context, kind Kind, identifier string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acct := range r.accounts {
		if acct.Kind == kind && (acct.MobileNumber == identifier || acct.Email == identifier) {
			return acct, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *memoryRepository) FindByID(_ context.Context, kind Kind, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.accounts[memoryKey{kind: kind, id: id}]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (r *memoryRepository) List(_ context.Context, kind Kind) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var accounts []Account
	for _, acct := range r.accounts {
		if acct.Kind == kind {
			accounts = append(accounts, acct)
		}
	}
	return accounts, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, kind Kind, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := memoryKey{kind: kind, id: id}
	acct, ok := r.accounts[key]
	if !ok {
		return ErrNotFound
	}
	acct.Status = status
	r.accounts[key] = acct
	return nil
}
