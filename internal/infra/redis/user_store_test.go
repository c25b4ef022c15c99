package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewUserStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestUserStoreRecordsAndSummarizes(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.GetOrCreate(ctx, "alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.GetOrCreate(ctx, "alice"); err != nil {
		t.Fatalf("re-create: %v", err)
	}
	if err := store.GetOrCreate(ctx, "bob"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.RecordQuestion(ctx, "alice", 7); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordQuestion(ctx, "alice", 8); err != nil {
		t.Fatalf("record: %v", err)
	}

	activities, err := store.Summaries(ctx)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(activities))
	}
	alice := activities[0]
	if alice.Session != "alice" || alice.Count != 2 {
		t.Fatalf("unexpected alice activity: %+v", alice)
	}
	if alice.QuestionIDs[0] != 7 || alice.QuestionIDs[1] != 8 {
		t.Fatalf("expected append order [7 8], got %v", alice.QuestionIDs)
	}
	if activities[1].Session != "bob" || activities[1].Count != 0 {
		t.Fatalf("expected empty bob activity, got %+v", activities[1])
	}
}
