package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore, used when
// neither Redis nor Postgres is configured.
type UserStore struct {
	mu      sync.RWMutex
	now     func() time.Time
	records map[string][]domain.AskedQuestion
}

func NewUserStore() *UserStore {
	return &UserStore{
		now:     time.Now,
		records: make(map[string][]domain.AskedQuestion),
	}
}

// NewUserStoreWithClock is test-only for deterministic timestamps.
func NewUserStoreWithClock(now func() time.Time) *UserStore {
	store := NewUserStore()
	store.now = now
	return store
}

func (s *UserStore) GetOrCreate(_ context.Context, session string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[session]; !ok {
		s.records[session] = nil
	}
	return nil
}

func (s *UserStore) RecordQuestion(_ context.Context, session string, questionID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[session] = append(s.records[session], domain.AskedQuestion{
		Session:    session,
		QuestionID: questionID,
		AskedAt:    s.now(),
	})
	return nil
}

func (s *UserStore) Summaries(_ context.Context) ([]domain.UserActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	activities := make([]domain.UserActivity, 0, len(s.records))
	for session, asked := range s.records {
		ids := make([]int, 0, len(asked))
		for _, record := range asked {
			ids = append(ids, record.QuestionID)
		}
		activities = append(activities, domain.UserActivity{
			Session:     session,
			QuestionIDs: ids,
			Count:       len(ids),
		})
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Session < activities[j].Session
	})
	return activities, nil
}
