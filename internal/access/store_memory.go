package access

import (
	"context"
	"sort"
	"sync"

	"loglens/internal/domain"
)

// InMemoryGroupStore backs unit tests and local development without a
// database.
type InMemoryGroupStore struct {
	mu     sync.RWMutex
	groups map[string]domain.AccessGroup
}

func NewInMemoryGroupStore() *InMemoryGroupStore {
	return &InMemoryGroupStore{groups: make(map[string]domain.AccessGroup)}
}

// Put inserts or replaces a group.
func (s *InMemoryGroupStore) Put(g domain.AccessGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
}

func (s *InMemoryGroupStore) ActiveGroupsFor(_ context.Context, userID string) ([]domain.AccessGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.AccessGroup
	for _, g := range s.groups {
		if !g.IsActive {
			continue
		}
		for _, m := range g.Members {
			if m == userID {
				result = append(result, g)
				break
			}
		}
	}

	// Map iteration is randomized; keep output deterministic like the SQL
	// store's ORDER BY id.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
