package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-service/internal/domain"
)

// UserStore persists session identities and asked-question records in
// Postgres (users / user_questions, see migrations).
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) GetOrCreate(ctx context.Context, session string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (jwt_sub) VALUES ($1) ON CONFLICT (jwt_sub) DO NOTHING`, session)
	if err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func (s *UserStore) RecordQuestion(ctx context.Context, session string, questionID int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_questions (user_id, question_id) VALUES ($1, $2)`, session, questionID)
	if err != nil {
		return fmt.Errorf("record question: %w", err)
	}
	return nil
}

// Summaries returns one entry per known session, including sessions that
// never answered a question.
func (s *UserStore) Summaries(ctx context.Context) ([]domain.UserActivity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT u.jwt_sub, q.question_id
		FROM users u
		LEFT JOIN user_questions q ON q.user_id = u.jwt_sub
		ORDER BY u.jwt_sub, q.id`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var activities []domain.UserActivity
	index := make(map[string]int)
	for rows.Next() {
		var session string
		var questionID *int
		if err := rows.Scan(&session, &questionID); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		i, ok := index[session]
		if !ok {
			i = len(activities)
			index[session] = i
			activities = append(activities, domain.UserActivity{Session: session, QuestionIDs: []int{}})
		}
		if questionID != nil {
			activities[i].QuestionIDs = append(activities[i].QuestionIDs, *questionID)
			activities[i].Count++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read summaries: %w", err)
	}
	return activities, nil
}
