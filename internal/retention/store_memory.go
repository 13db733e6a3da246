package retention

import (
	"context"
	"sync"
	"time"

	"loglens/internal/domain"
	"loglens/pkg/platform/sentinel"
)

// InMemoryPolicyStore backs unit tests.
type InMemoryPolicyStore struct {
	mu     sync.RWMutex
	policy *domain.RetentionPolicy
}

func NewInMemoryPolicyStore() *InMemoryPolicyStore {
	return &InMemoryPolicyStore{}
}

func (s *InMemoryPolicyStore) Get(_ context.Context) (*domain.RetentionPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.policy == nil {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.policy
	return &copied, nil
}

func (s *InMemoryPolicyStore) EnsureDefault(_ context.Context, days int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy != nil {
		return nil
	}
	now := time.Now()
	s.policy = &domain.RetentionPolicy{
		RetentionDays: days,
		UpdatedBy:     "system",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return nil
}

func (s *InMemoryPolicyStore) Update(_ context.Context, days int, updatedBy string) (*domain.RetentionPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.policy == nil {
		s.policy = &domain.RetentionPolicy{CreatedAt: now}
	}
	s.policy.RetentionDays = days
	s.policy.UpdatedBy = updatedBy
	s.policy.UpdatedAt = now

	copied := *s.policy
	return &copied, nil
}
