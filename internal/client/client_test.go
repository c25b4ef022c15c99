package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"trivia-service/internal/domain"
)

// fakeServer mimics the trivia API: every login mints a new token, and
// requests are rejected until the token generation reaches minValidLogin.
type fakeServer struct {
	mu            sync.Mutex
	logins        int
	questionCalls int
	answerCalls   int
	minValidLogin int
	lastExclude   []string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logins++
		token := fmt.Sprintf("tok-%d", f.logins)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	})
	mux.HandleFunc("/api/v1/questions/random", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.questionCalls++
		f.lastExclude = r.URL.Query()["exclude"]
		f.mu.Unlock()
		if !f.accept(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(domain.Question{
			ID:            7,
			Prompt:        "Which ocean is the deepest?",
			Answers:       []string{"Atlantic", "Pacific"},
			CorrectAnswer: 1,
		})
	})
	mux.HandleFunc("/api/v1/answers", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.answerCalls++
		f.mu.Unlock()
		if !f.accept(r) {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var body struct {
			QuestionID int    `json:"question_id"`
			UserAnswer string `json:"user_answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.AnswerResult{
			Correct:       body.UserAnswer == "Pacific",
			CorrectAnswer: 1,
			Explanation:   "deepest trench",
		})
	})
	return mux
}

func (f *fakeServer) accept(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return r.Header.Get("Authorization") == fmt.Sprintf("Bearer tok-%d", f.minValidLogin)
}

func newFake(t *testing.T, minValidLogin int) (*fakeServer, *Client) {
	t.Helper()
	fake := &fakeServer{minValidLogin: minValidLogin}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return fake, New(server.URL)
}

func TestRandomQuestionHappyPath(t *testing.T) {
	fake, c := newFake(t, 1)
	ctx := context.Background()

	if c.HasCredential() {
		t.Fatalf("expected no credential before login")
	}
	if err := c.Login(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !c.HasCredential() {
		t.Fatalf("expected credential after login")
	}

	q, err := c.RandomQuestion(ctx, []int{3, 4})
	if err != nil {
		t.Fatalf("random question: %v", err)
	}
	if q.ID != 7 {
		t.Fatalf("unexpected question %+v", q)
	}
	if len(fake.lastExclude) != 2 || fake.lastExclude[0] != "3" || fake.lastExclude[1] != "4" {
		t.Fatalf("expected exclude params [3 4], got %v", fake.lastExclude)
	}
}

func TestRejectedCredentialRetriesOnce(t *testing.T) {
	// Only the second login's token is accepted: the first request gets a
	// 403, the client re-logs in and retries, and the retry succeeds.
	fake, c := newFake(t, 2)
	ctx := context.Background()

	if err := c.Login(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}

	q, err := c.RandomQuestion(ctx, nil)
	if err != nil {
		t.Fatalf("expected transparent recovery, got %v", err)
	}
	if q.ID != 7 {
		t.Fatalf("unexpected question %+v", q)
	}
	if fake.logins != 2 {
		t.Fatalf("expected exactly one re-login (2 logins total), got %d", fake.logins)
	}
	if fake.questionCalls != 2 {
		t.Fatalf("expected exactly one retry (2 requests total), got %d", fake.questionCalls)
	}
}

func TestSecondRejectionSurfacesConnectivityError(t *testing.T) {
	// No login generation is ever accepted.
	fake, c := newFake(t, 99)
	ctx := context.Background()

	if err := c.Login(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err := c.RandomQuestion(ctx, nil)
	if !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("expected ErrConnectivity, got %v", err)
	}
	if fake.questionCalls != 2 {
		t.Fatalf("expected no third attempt, got %d requests", fake.questionCalls)
	}
	if fake.logins != 2 {
		t.Fatalf("expected exactly one re-login, got %d logins", fake.logins)
	}
}

func TestSubmitAnswer(t *testing.T) {
	fake, c := newFake(t, 1)
	ctx := context.Background()
	if err := c.Login(ctx); err != nil {
		t.Fatalf("login: %v", err)
	}

	result, err := c.SubmitAnswer(ctx, 7, "Pacific")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Correct || result.CorrectAnswer != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if fake.answerCalls != 1 {
		t.Fatalf("expected 1 answer call, got %d", fake.answerCalls)
	}
}
