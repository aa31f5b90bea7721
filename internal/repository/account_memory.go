package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardwise/internal/model"
)

// MemoryAccountRepository keeps accounts in memory, for the database-less
// storage backend and for tests.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]model.Account
}

// NewMemoryAccountRepository constructs an empty in-memory account repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[uuid.UUID]model.Account)}
}

var _ AccountRepository = (*MemoryAccountRepository)(nil)

func (r *MemoryAccountRepository) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryAccountRepository) Update(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return ErrNotFound
	}
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = *account
	return nil
}

func (r *MemoryAccountRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if account, ok := r.accounts[id]; ok {
		return &account, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.Email == email {
			found := account
			return &found, nil
		}
	}
	return nil, ErrNotFound
}
