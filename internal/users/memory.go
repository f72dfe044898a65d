package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codegrapher/graphers/internal/models"
)

// MemoryUserRepository is an in-process UserRepository used by tests and
// local tooling. Email uniqueness is enforced on insert like the Mongo index.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	byMail map[string]*models.User
	seq    int
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byMail: make(map[string]*models.User)}
}

func (m *MemoryUserRepository) EnsureIndexes(ctx context.Context) error { return nil }

func (m *MemoryUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[u.Email]; ok {
		return nil, ErrDuplicateEmail
	}
	m.seq++
	now := time.Now().UTC()
	cp := *u
	cp.ID = fmt.Sprintf("user_%d", m.seq)
	cp.CreatedAt = now
	cp.UpdatedAt = now
	m.byMail[cp.Email] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byMail[email]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MemoryUserRepository) SetDisabled(ctx context.Context, email string, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byMail[email]
	if !ok {
		return ErrNotFound
	}
	u.Disabled = disabled
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Count returns the number of stored records.
func (m *MemoryUserRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byMail)
}
