package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// StaticQuestionStore serves questions from an in-memory slice (useful for
// tests and demos, no file needed).
type StaticQuestionStore struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	questions []domain.Question
}

func NewStaticQuestionStore(questions []domain.Question) *StaticQuestionStore {
	return &StaticQuestionStore{
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		questions: questions,
	}
}

func (s *StaticQuestionStore) PickRandom(_ context.Context, exclude map[int]struct{}) (domain.Question, error) {
	if len(s.questions) == 0 {
		return domain.Question{}, domain.ErrNoQuestions
	}
	pool := s.questions
	if len(exclude) > 0 {
		filtered := make([]domain.Question, 0, len(s.questions))
		for _, q := range s.questions {
			if _, skip := exclude[q.ID]; !skip {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}
	s.mu.Lock()
	idx := s.rnd.Intn(len(pool))
	s.mu.Unlock()
	return pool[idx], nil
}

func (s *StaticQuestionStore) Lookup(_ context.Context, id int) (domain.Question, error) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}
