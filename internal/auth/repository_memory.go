package auth

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepository backs tests and local development.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account // keyed by lowercase email
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]Account)}
}

func (m *MemoryRepository) Save(ctx context.Context, acct *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[strings.ToLower(acct.Email)] = *acct
	return nil
}

func (m *MemoryRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[strings.ToLower(email)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &acct, nil
}

func (m *MemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[strings.ToLower(email)]
	return ok, nil
}
