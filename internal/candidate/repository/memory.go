package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/codegrapher/graphers/internal/candidate"
)

// MemoryRepo is an in-memory Repository used by unit tests and the admin
// tooling's dry runs. Records keep insertion order.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*candidate.Candidate
	order []string
	seq   int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*candidate.Candidate)}
}

func (m *MemoryRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *MemoryRepo) emailTaken(email, except string) bool {
	for id, c := range m.store {
		if id != except && c.Email == email {
			return true
		}
	}
	return false
}

func clone(c *candidate.Candidate) *candidate.Candidate {
	out := *c
	if c.ExperienceYears != nil {
		v := *c.ExperienceYears
		out.ExperienceYears = &v
	}
	out.Skills = append([]string{}, c.Skills...)
	return &out
}

func (m *MemoryRepo) Create(ctx context.Context, c *candidate.Candidate) (*candidate.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(c.Email, "") {
		return nil, candidate.ErrDuplicateEmail
	}
	m.seq++
	stored := clone(c)
	stored.ID = fmt.Sprintf("%024x", m.seq)
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	m.store[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	return clone(stored), nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.store[id]; ok {
		return clone(c), nil
	}
	return nil, candidate.ErrNotFound
}

func matches(c *candidate.Candidate, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range []string{c.FullName, c.Email, c.Address, c.Education, c.PhoneNumber} {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	for _, s := range c.Skills {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) List(ctx context.Context, q candidate.Query) ([]*candidate.Candidate, error) {
	q = q.Normalize()
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*candidate.Candidate{}
	skip := q.Skip()
	for _, id := range m.order {
		c := m.store[id]
		if !matches(c, q.Search) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, clone(c))
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, p candidate.Patch) (*candidate.Candidate, error) {
	if p.IsEmpty() {
		return nil, candidate.ErrEmptyUpdate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return nil, candidate.ErrNotFound
	}
	if p.Email != nil && m.emailTaken(*p.Email, id) {
		return nil, candidate.ErrDuplicateEmail
	}
	p.Apply(c)
	c.UpdatedAt = time.Now().UTC()
	return clone(c), nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return candidate.ErrNotFound
	}
	delete(m.store, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Stream snapshots the records under the read lock and then yields them.
func (m *MemoryRepo) Stream(ctx context.Context, batchSize int, fn func([]candidate.Candidate) error) error {
	if batchSize < 1 {
		batchSize = 1000
	}
	m.mu.RLock()
	all := make([]candidate.Candidate, 0, len(m.order))
	for _, id := range m.order {
		all = append(all, *clone(m.store[id]))
	}
	m.mu.RUnlock()

	for start := 0; start < len(all); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(all) {
			end = len(all)
		}
		if err := fn(all[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored records.
func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
