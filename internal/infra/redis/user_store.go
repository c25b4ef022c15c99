package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"trivia-service/internal/domain"
)

// UserStore keeps session identities and their asked-question records in
// Redis. Layout:
//
//	SADD  trivia:users             {session}
//	RPUSH trivia:user:{session}:questions {questionID}
//
// Records are append-only, matching the recorder contract.
type UserStore struct {
	client *redis.Client
}

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) GetOrCreate(ctx context.Context, session string) error {
	if err := s.client.SAdd(ctx, usersKey, session).Err(); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func (s *UserStore) RecordQuestion(ctx context.Context, session string, questionID int) error {
	if err := s.client.RPush(ctx, questionsKey(session), questionID).Err(); err != nil {
		return fmt.Errorf("record question: %w", err)
	}
	return nil
}

func (s *UserStore) Summaries(ctx context.Context) ([]domain.UserActivity, error) {
	sessions, err := s.client.SMembers(ctx, usersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sort.Strings(sessions)

	activities := make([]domain.UserActivity, 0, len(sessions))
	for _, session := range sessions {
		raw, err := s.client.LRange(ctx, questionsKey(session), 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("list questions for %s: %w", session, err)
		}
		ids := make([]int, 0, len(raw))
		for _, v := range raw {
			id, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		activities = append(activities, domain.UserActivity{
			Session:     session,
			QuestionIDs: ids,
			Count:       len(ids),
		})
	}
	return activities, nil
}

const usersKey = "trivia:users"

func questionsKey(session string) string {
	return "trivia:user:" + session + ":questions"
}
