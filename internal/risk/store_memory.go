package risk

import (
	"context"
	"sort"
	"sync"

	"loglens/internal/domain"
)

// InMemoryRuleStore backs unit tests.
type InMemoryRuleStore struct {
	mu    sync.RWMutex
	rules map[string]domain.RiskRule
}

func NewInMemoryRuleStore() *InMemoryRuleStore {
	return &InMemoryRuleStore{rules: make(map[string]domain.RiskRule)}
}

func (s *InMemoryRuleStore) Put(r domain.RiskRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID] = r
}

func (s *InMemoryRuleStore) ListRules(_ context.Context) ([]domain.RiskRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.RiskRule, 0, len(s.rules))
	for _, r := range s.rules {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
