package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// State is the round lifecycle phase of the controller.
type State int

const (
	// StateIdle is the phase before the first login.
	StateIdle State = iota
	// StateLoading covers the question fetch between rounds.
	StateLoading
	// StateDisplaying is the only phase that accepts answers.
	StateDisplaying
	// StateAnswered is the terminal phase after a successful submit.
	StateAnswered
	// StateTimedOut is the terminal phase after the countdown expired.
	StateTimedOut
	// StateFailed is reached when a request failed and the round is dead.
	StateFailed
)

// API is the authenticated channel to the trivia server. client.Client
// implements it, including the one-shot re-login retry.
type API interface {
	HasCredential() bool
	Login(ctx context.Context) error
	RandomQuestion(ctx context.Context, exclude []int) (domain.Question, error)
	SubmitAnswer(ctx context.Context, questionID int, answerText string) (domain.AnswerResult, error)
}

// Presenter renders controller output. Implementations forward user input
// back through the OnAdvanceClicked / OnAnswerClicked / OnRulesDismissed
// handlers.
type Presenter interface {
	ShowQuestion(question domain.Question, answers []string)
	ShowTimeLeft(seconds int)
	ShowResult(correct bool, chosen, correctIndex int, explanation string)
	ShowError(message string)
	RulesVisible() bool
}

// Round is the ephemeral state of one displayed question: the shuffled
// presentation order and the shuffled position of the correct answer.
type Round struct {
	Question     domain.Question
	Shuffled     []string
	CorrectIndex int
}

// Controller drives the question/answer/timeout loop. All event handlers
// (clicks, responses, timer events) serialize on one mutex, so each runs to
// completion before the next is applied.
type Controller struct {
	api       API
	presenter Presenter
	timer     *Timer
	budget    int
	rnd       *rand.Rand

	mu        sync.Mutex
	state     State
	accepting bool
	round     *Round
	asked     []int
}

// DefaultBudget is the per-round countdown in ticks (seconds).
const DefaultBudget = 20

func New(api API, presenter Presenter) *Controller {
	return NewWithTiming(api, presenter, time.Second, DefaultBudget)
}

// NewWithTiming allows tests to shrink the tick interval and budget.
func NewWithTiming(api API, presenter Presenter, tick time.Duration, budget int) *Controller {
	return &Controller{
		api:       api,
		presenter: presenter,
		timer:     NewTimer(tick),
		budget:    budget,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		state:     StateIdle,
	}
}

// Initialize logs in if no credential is held, loads the first question, and
// begins the round unless the first-time rules overlay is showing. When the
// overlay is up, the round starts on OnRulesDismissed instead.
func (c *Controller) Initialize(ctx context.Context) error {
	if !c.api.HasCredential() {
		if err := c.api.Login(ctx); err != nil {
			c.fail("Failed to connect to the server. Please try again.")
			return err
		}
	}
	if err := c.Advance(ctx, false); err != nil {
		return err
	}
	if !c.presenter.RulesVisible() {
		c.beginRound()
	}
	return nil
}

// OnRulesDismissed starts the deferred first round.
func (c *Controller) OnRulesDismissed() {
	c.beginRound()
}

// OnAdvanceClicked moves to the next question.
func (c *Controller) OnAdvanceClicked(ctx context.Context) {
	_ = c.Advance(ctx, true)
}

// OnAnswerClicked submits the answer at the given shuffled index.
func (c *Controller) OnAnswerClicked(ctx context.Context, index int) {
	c.Submit(ctx, index)
}

// Advance ends any running countdown, fetches the next question excluding
// everything already asked this session, shuffles its answers, and presents
// it. With autoStart the round begins immediately; otherwise it waits for
// beginRound (first question behind the rules overlay).
func (c *Controller) Advance(ctx context.Context, autoStart bool) error {
	c.mu.Lock()
	c.timer.Stop()
	c.accepting = false
	c.state = StateLoading
	exclude := append([]int(nil), c.asked...)
	c.mu.Unlock()

	question, err := c.api.RandomQuestion(ctx, exclude)
	if err != nil {
		c.fail("Error loading question. Please check the server connection.")
		return err
	}

	c.mu.Lock()
	shuffled, correctIndex := shuffleAnswers(c.rnd, question)
	c.asked = append(c.asked, question.ID)
	c.round = &Round{Question: question, Shuffled: shuffled, CorrectIndex: correctIndex}
	c.mu.Unlock()

	c.presenter.ShowQuestion(question, shuffled)
	if autoStart {
		c.beginRound()
	}
	return nil
}

// Submit sends the answer at the shuffled index. It is a deliberate no-op
// outside the accepting window, guarding against double submits and clicks
// that land after a timeout.
func (c *Controller) Submit(ctx context.Context, index int) {
	c.mu.Lock()
	if c.state != StateDisplaying || !c.accepting || c.round == nil ||
		index < 0 || index >= len(c.round.Shuffled) {
		c.mu.Unlock()
		return
	}
	c.accepting = false
	c.timer.Stop()
	round := c.round
	c.mu.Unlock()

	result, err := c.api.SubmitAnswer(ctx, round.Question.ID, round.Shuffled[index])
	if err != nil {
		c.fail("Could not submit your answer.")
		return
	}

	c.mu.Lock()
	c.state = StateAnswered
	c.mu.Unlock()
	c.presenter.ShowResult(result.Correct, index, round.CorrectIndex, result.Explanation)
}

// beginRound opens the accepting window and starts the countdown.
func (c *Controller) beginRound() {
	c.mu.Lock()
	if c.round == nil {
		c.mu.Unlock()
		return
	}
	c.state = StateDisplaying
	c.accepting = true
	c.mu.Unlock()

	c.timer.Start(c.budget, c.presenter.ShowTimeLeft, c.handleTimeout)
}

// handleTimeout ends the round as an incorrect, unsubmitted answer. No
// network call happens; the correct index and explanation are already local.
func (c *Controller) handleTimeout() {
	c.mu.Lock()
	if c.state != StateDisplaying || !c.accepting {
		c.mu.Unlock()
		return
	}
	c.accepting = false
	c.state = StateTimedOut
	round := c.round
	c.mu.Unlock()

	c.presenter.ShowResult(false, -1, round.CorrectIndex, round.Question.Explanation)
}

func (c *Controller) fail(message string) {
	c.mu.Lock()
	c.timer.Stop()
	c.accepting = false
	c.state = StateFailed
	c.mu.Unlock()
	c.presenter.ShowError(message)
}

// State reports the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Accepting reports whether an answer would currently be taken.
func (c *Controller) Accepting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accepting
}

// Asked returns a copy of the question IDs asked this session.
func (c *Controller) Asked() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.asked...)
}

// CurrentRound returns the active round, or nil before the first question.
func (c *Controller) CurrentRound() *Round {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.round == nil {
		return nil
	}
	copied := *c.round
	copied.Shuffled = append([]string(nil), c.round.Shuffled...)
	return &copied
}

// shuffleAnswers returns a random permutation of the answers and the permuted
// index of the correct one.
func shuffleAnswers(rnd *rand.Rand, q domain.Question) ([]string, int) {
	shuffled := append([]string(nil), q.Answers...)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	correctIndex := -1
	if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Answers) {
		correctText := q.Answers[q.CorrectAnswer]
		for i, text := range shuffled {
			if text == correctText {
				correctIndex = i
				break
			}
		}
	}
	return shuffled, correctIndex
}
