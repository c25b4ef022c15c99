package file

import (
	"context"
	"path/filepath"
	"testing"

	"trivia-service/internal/domain"
)

func testStore() *QuestionStore {
	return NewQuestionStore(filepath.Join("testdata", "questions.json"))
}

func TestPickRandomHonorsExclusion(t *testing.T) {
	store := testStore()
	exclude := map[int]struct{}{7: {}, 8: {}}

	// The pick is random; any excluded ID showing up is a failure.
	for i := 0; i < 50; i++ {
		q, err := store.PickRandom(context.Background(), exclude)
		if err != nil {
			t.Fatalf("pick: %v", err)
		}
		if _, excluded := exclude[q.ID]; excluded {
			t.Fatalf("picked excluded question %d", q.ID)
		}
	}
}

func TestPickRandomWrapsAroundOnExhaustion(t *testing.T) {
	store := testStore()
	exclude := map[int]struct{}{7: {}, 8: {}, 9: {}}

	q, err := store.PickRandom(context.Background(), exclude)
	if err != nil {
		t.Fatalf("expected wrap-around pick, got error: %v", err)
	}
	if q.ID != 7 && q.ID != 8 && q.ID != 9 {
		t.Fatalf("unexpected question %d", q.ID)
	}
}

func TestLookup(t *testing.T) {
	store := testStore()

	q, err := store.Lookup(context.Background(), 8)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if q.Prompt != "What is the smallest prime number?" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.Answers[q.CorrectAnswer] != "2" {
		t.Fatalf("correct answer mapping broken: %+v", q)
	}

	if _, err := store.Lookup(context.Background(), 999); err != domain.ErrQuestionNotFound {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestMissingFile(t *testing.T) {
	store := NewQuestionStore(filepath.Join("testdata", "missing.json"))
	if _, err := store.PickRandom(context.Background(), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
