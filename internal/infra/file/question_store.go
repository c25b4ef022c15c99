package file

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-service/internal/domain"
)

// QuestionStore serves questions from a JSON file on disk. The file is read
// once on first use; questions are immutable afterwards.
type QuestionStore struct {
	path string
	sf   singleflight.Group
	rnd  *rand.Rand

	mu        sync.RWMutex
	questions []domain.Question
	byID      map[int]domain.Question
	loaded    bool
}

func NewQuestionStore(path string) *QuestionStore {
	return &QuestionStore{
		path: path,
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// PickRandom selects one question uniformly at random, skipping excluded IDs.
// When the exclusion covers the whole pool the selection wraps around to the
// full pool so a long-running session keeps getting questions.
func (s *QuestionStore) PickRandom(ctx context.Context, exclude map[int]struct{}) (domain.Question, error) {
	questions, err := s.load(ctx)
	if err != nil {
		return domain.Question{}, err
	}
	if len(questions) == 0 {
		return domain.Question{}, domain.ErrNoQuestions
	}

	pool := questions
	if len(exclude) > 0 {
		filtered := make([]domain.Question, 0, len(questions))
		for _, q := range questions {
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

// Lookup returns the question with the given ID.
func (s *QuestionStore) Lookup(ctx context.Context, id int) (domain.Question, error) {
	if _, err := s.load(ctx); err != nil {
		return domain.Question{}, err
	}
	s.mu.RLock()
	q, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (s *QuestionStore) load(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	if s.loaded {
		questions := s.questions
		s.mu.RUnlock()
		return questions, nil
	}
	s.mu.RUnlock()

	result, err, _ := s.sf.Do("load", func() (interface{}, error) {
		s.mu.RLock()
		if s.loaded {
			questions := s.questions
			s.mu.RUnlock()
			return questions, nil
		}
		s.mu.RUnlock()

		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read question file: %w", err)
		}
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err != nil {
			return nil, fmt.Errorf("parse question file: %w", err)
		}

		byID := make(map[int]domain.Question, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}

		s.mu.Lock()
		s.questions = questions
		s.byID = byID
		s.loaded = true
		s.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}
