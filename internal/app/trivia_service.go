package app

import (
	"context"
	"fmt"

	"trivia-service/internal/domain"
)

// QuestionStore provides read-only access to the question pool.
type QuestionStore interface {
	PickRandom(ctx context.Context, exclude map[int]struct{}) (domain.Question, error)
	Lookup(ctx context.Context, id int) (domain.Question, error)
}

// UserStore abstracts how session identities and asked-question records are
// kept (in-memory, Redis, Postgres). Records are append-only.
type UserStore interface {
	GetOrCreate(ctx context.Context, session string) error
	RecordQuestion(ctx context.Context, session string, questionID int) error
	Summaries(ctx context.Context) ([]domain.UserActivity, error)
}

// TriviaService contains the server-side use cases: serving questions,
// judging answers, and aggregating the admin metrics view.
type TriviaService struct {
	questions QuestionStore
	users     UserStore
}

func NewTriviaService(questions QuestionStore, users UserStore) *TriviaService {
	return &TriviaService{questions: questions, users: users}
}

// RandomQuestion picks a question outside the excluded ID set.
func (s *TriviaService) RandomQuestion(ctx context.Context, excludeIDs []int) (domain.Question, error) {
	exclude := make(map[int]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = struct{}{}
	}
	return s.questions.PickRandom(ctx, exclude)
}

// SubmitAnswer records that the session was asked the question and judges the
// submitted answer text against the correct one.
func (s *TriviaService) SubmitAnswer(ctx context.Context, session string, questionID int, answerText string) (domain.AnswerResult, error) {
	question, err := s.questions.Lookup(ctx, questionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	if err := s.users.RecordQuestion(ctx, session, questionID); err != nil {
		return domain.AnswerResult{}, fmt.Errorf("record answer: %w", err)
	}

	correct := question.CorrectAnswer >= 0 &&
		question.CorrectAnswer < len(question.Answers) &&
		question.Answers[question.CorrectAnswer] == answerText

	return domain.AnswerResult{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
		Explanation:   question.Explanation,
	}, nil
}

// UserMetrics aggregates all recorded activity for the admin view.
func (s *TriviaService) UserMetrics(ctx context.Context) (domain.Metrics, error) {
	users, err := s.users.Summaries(ctx)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("summarize users: %w", err)
	}
	total := 0
	for _, u := range users {
		total += u.Count
	}
	return domain.Metrics{
		TotalUsers:     len(users),
		TotalQuestions: total,
		Users:          users,
	}, nil
}
