package directory

import (
	"context"
	"sync"

	"loglens/internal/domain"
	"loglens/pkg/platform/sentinel"
)

// InMemoryUserStore backs unit tests.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]domain.User)}
}

func (s *InMemoryUserStore) Put(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *InMemoryUserStore) Get(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := u
	return &copied, nil
}
