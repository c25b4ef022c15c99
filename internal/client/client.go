package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

const apiPrefix = "/api/v1"

// Client talks to the trivia API. It holds the current credential explicitly
// and renews it at most once per call: a rejected request triggers exactly
// one re-login and one retry before the failure is surfaced as
// domain.ErrConnectivity.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// HasCredential reports whether a login has already happened.
func (c *Client) HasCredential() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != ""
}

// Login obtains a fresh credential, superseding any previous one.
func (c *Client) Login(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/login", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("login: decode response: %w", err)
	}
	c.mu.Lock()
	c.token = body.AccessToken
	c.mu.Unlock()
	return nil
}

// RandomQuestion fetches one question, excluding already-asked IDs.
func (c *Client) RandomQuestion(ctx context.Context, exclude []int) (domain.Question, error) {
	query := url.Values{}
	for _, id := range exclude {
		query.Add("exclude", strconv.Itoa(id))
	}
	path := apiPrefix + "/questions/random"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var question domain.Question
	if err := c.doAuthed(ctx, http.MethodGet, path, nil, &question); err != nil {
		return domain.Question{}, err
	}
	return question, nil
}

// SubmitAnswer sends the chosen answer text for judging.
func (c *Client) SubmitAnswer(ctx context.Context, questionID int, answerText string) (domain.AnswerResult, error) {
	payload, err := json.Marshal(map[string]any{
		"question_id": questionID,
		"user_answer": answerText,
	})
	if err != nil {
		return domain.AnswerResult{}, err
	}

	var result domain.AnswerResult
	if err := c.doAuthed(ctx, http.MethodPost, apiPrefix+"/answers", payload, &result); err != nil {
		return domain.AnswerResult{}, err
	}
	return result, nil
}

// doAuthed performs one authenticated request. On a credential rejection
// (401/403) it re-logs in exactly once and retries the request once; any
// further rejection is surfaced as domain.ErrConnectivity.
func (c *Client) doAuthed(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
	}

	if credentialRejected(resp.StatusCode) {
		resp.Body.Close()
		if err := c.Login(ctx); err != nil {
			return fmt.Errorf("%w: re-login failed: %v", domain.ErrConnectivity, err)
		}
		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
		}
		if credentialRejected(resp.StatusCode) {
			resp.Body.Close()
			return domain.ErrConnectivity
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()
	return c.http.Do(req)
}

func credentialRejected(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
