package app_test

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:            7,
			Prompt:        "Which ocean is the deepest?",
			Category:      "Geography",
			Difficulty:    "easy",
			Answers:       []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			CorrectAnswer: 3,
			Explanation:   "The Mariana Trench is in the Pacific.",
		},
		{
			ID:            8,
			Prompt:        "What is the smallest prime number?",
			Category:      "Mathematics",
			Difficulty:    "easy",
			Answers:       []string{"0", "1", "2", "3"},
			CorrectAnswer: 2,
			Explanation:   "2 is the only even prime.",
		},
	}
}

func newTestService() (*app.TriviaService, *memory.UserStore) {
	users := memory.NewUserStore()
	questions := memory.NewStaticQuestionStore(sampleQuestions())
	return app.NewTriviaService(questions, users), users
}

func TestRandomQuestionExcludes(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	for i := 0; i < 20; i++ {
		q, err := service.RandomQuestion(ctx, []int{7})
		if err != nil {
			t.Fatalf("random question: %v", err)
		}
		if q.ID == 7 {
			t.Fatalf("excluded question 7 was returned")
		}
	}
}

func TestSubmitAnswerJudgesAndRecords(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	result, err := service.SubmitAnswer(ctx, "alice", 7, "Pacific")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct || result.CorrectAnswer != 3 {
		t.Fatalf("expected correct verdict with index 3, got %+v", result)
	}
	if result.Explanation == "" {
		t.Fatalf("expected explanation to be forwarded")
	}

	result, err = service.SubmitAnswer(ctx, "alice", 8, "3")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Correct {
		t.Fatalf("expected incorrect verdict for wrong text")
	}
	if result.CorrectAnswer != 2 {
		t.Fatalf("expected correct index 2, got %d", result.CorrectAnswer)
	}

	activities, err := users.Summaries(ctx)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(activities) != 1 || activities[0].Count != 2 {
		t.Fatalf("expected 2 records for alice, got %+v", activities)
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	_, err := service.SubmitAnswer(ctx, "alice", 999, "anything")
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	// A failed lookup must not leave a record behind.
	activities, err := users.Summaries(ctx)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(activities) != 0 {
		t.Fatalf("expected no records, got %+v", activities)
	}
}

func TestUserMetricsAggregates(t *testing.T) {
	ctx := context.Background()
	service, users := newTestService()

	if err := users.GetOrCreate(ctx, "idle"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, "alice", 7, "Pacific"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, "alice", 8, "2"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	metrics, err := service.UserMetrics(ctx)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if metrics.TotalUsers != 2 {
		t.Fatalf("expected 2 users, got %d", metrics.TotalUsers)
	}
	if metrics.TotalQuestions != 2 {
		t.Fatalf("expected 2 total questions, got %d", metrics.TotalQuestions)
	}
}
