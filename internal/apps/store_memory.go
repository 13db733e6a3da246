package apps

import (
	"context"
	"sort"
	"sync"

	"loglens/internal/domain"
)

// InMemoryStore backs unit tests and local development.
type InMemoryStore struct {
	mu   sync.RWMutex
	apps map[string]domain.Application
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{apps: make(map[string]domain.Application)}
}

func (s *InMemoryStore) Put(app domain.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = app
}

func (s *InMemoryStore) ByIDs(_ context.Context, ids []string) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Application
	for _, id := range ids {
		if app, ok := s.apps[id]; ok {
			result = append(result, app)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]domain.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Application
	for _, app := range s.apps {
		if app.IsActive {
			result = append(result, app)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
