package logs

import (
	"context"
	"sort"
	"sync"
	"time"

	"loglens/internal/domain"
)

// InMemoryLogStore mirrors the PostgreSQL store's semantics for unit tests
// and local development.
type InMemoryLogStore struct {
	mu      sync.RWMutex
	records []domain.LogRecord
}

func NewInMemoryLogStore() *InMemoryLogStore {
	return &InMemoryLogStore{}
}

// Add appends records; intended for test seeding.
func (s *InMemoryLogStore) Add(records ...domain.LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

func (s *InMemoryLogStore) matchSorted(q Query) []domain.LogRecord {
	var matched []domain.LogRecord
	for _, rec := range s.records {
		if q.matches(rec.ApplicationID, rec.Level, rec.Message, rec.Timestamp) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID > matched[j].ID
	})
	return matched
}

func (s *InMemoryLogStore) Find(_ context.Context, q Query, offset, limit int) ([]domain.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchSorted(q)
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *InMemoryLogStore) FindAll(_ context.Context, q Query) ([]domain.LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchSorted(q), nil
}

func (s *InMemoryLogStore) Count(_ context.Context, q Query) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchSorted(q)), nil
}

func (s *InMemoryLogStore) CountByHourLevel(_ context.Context, q Query) (map[HourLevel]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[HourLevel]int)
	for _, rec := range s.records {
		if q.matches(rec.ApplicationID, rec.Level, rec.Message, rec.Timestamp) {
			counts[HourLevel{Hour: rec.Timestamp.UTC().Hour(), Level: rec.Level}]++
		}
	}
	return counts, nil
}

func (s *InMemoryLogStore) CountByAppSince(_ context.Context, level string, since time.Time, appIDs []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed := make(map[string]struct{}, len(appIDs))
	for _, id := range appIDs {
		allowed[id] = struct{}{}
	}

	counts := make(map[string]int)
	for _, rec := range s.records {
		if rec.Level != level || rec.Timestamp.Before(since) {
			continue
		}
		if _, ok := allowed[rec.ApplicationID]; ok {
			counts[rec.ApplicationID]++
		}
	}
	return counts, nil
}

func (s *InMemoryLogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, rec := range s.records {
		if rec.Timestamp.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return deleted, nil
}
