package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/identity-service/internal/domain"
)

// MemoryAccountRepository is a map-backed AccountRepository used by tests
// and storage-less development runs. Create enforces uniqueness of
// (role, identifier) among active accounts only, matching the Postgres
// partial index.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewMemoryAccountRepository builds an empty in-memory repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Role == account.Role && existing.Identifier == account.Identifier && existing.DeactivatedAt == nil {
			return ErrDuplicateIdentifier
		}
	}

	now := time.Now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	r.accounts[account.ID] = &stored
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, role domain.RoleTag, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok || account.Role != role {
		return nil, ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *MemoryAccountRepository) GetByIdentifier(_ context.Context, role domain.RoleTag, identifier string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Role == role && account.Identifier == identifier && account.DeactivatedAt == nil {
			copied := *account
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepository) Deactivate(_ context.Context, role domain.RoleTag, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok || account.Role != role || account.DeactivatedAt != nil {
		return ErrNotFound
	}
	now := time.Now()
	account.DeactivatedAt = &now
	account.UpdatedAt = now
	return nil
}
