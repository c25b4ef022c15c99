package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"trivia-service/internal/client"
	"trivia-service/internal/domain"
	"trivia-service/internal/game"
)

// NewPlayCmd runs the game loop against a trivia server in the terminal. It
// stands in for the browser front-end: stdout renders, stdin delivers the
// clicks.
func NewPlayCmd() *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play trivia in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, serverURL)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "trivia server base URL")
	return cmd
}

func runPlay(cmd *cobra.Command, serverURL string) error {
	ctx := cmd.Context()
	api := client.New(serverURL)
	presenter := newTerminalPresenter(cmd.OutOrStdout())
	controller := game.New(api, presenter)

	if err := controller.Initialize(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	if presenter.RulesVisible() {
		if !scanner.Scan() {
			return scanner.Err()
		}
		presenter.dismissRules()
		controller.OnRulesDismissed()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q" || line == "quit":
			return nil
		case line == "":
			controller.OnAdvanceClicked(ctx)
		default:
			n, err := strconv.Atoi(line)
			if err != nil {
				presenter.printf("Type an answer number, enter for the next question, or q to quit.\n")
				continue
			}
			controller.OnAnswerClicked(ctx, n-1)
		}
	}
	return scanner.Err()
}

// terminalPresenter renders controller output to a writer. The rules overlay
// is shown once per run, mirroring the front-end's first-visit popup.
type terminalPresenter struct {
	mu           sync.Mutex
	out          io.Writer
	rulesVisible bool
}

func newTerminalPresenter(out io.Writer) *terminalPresenter {
	p := &terminalPresenter{out: out, rulesVisible: true}
	p.printf("How to play: you get %d seconds per question.\n", game.DefaultBudget)
	p.printf("Answer with its number, press enter for the next question, q to quit.\n")
	p.printf("Press enter to start playing.\n")
	return p
}

func (p *terminalPresenter) RulesVisible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rulesVisible
}

func (p *terminalPresenter) dismissRules() {
	p.mu.Lock()
	p.rulesVisible = false
	p.mu.Unlock()
}

func (p *terminalPresenter) ShowQuestion(question domain.Question, answers []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "\n[%s / %s] %s\n", question.Category, question.Difficulty, question.Prompt)
	for i, answer := range answers {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, answer)
	}
}

func (p *terminalPresenter) ShowTimeLeft(seconds int) {
	if seconds > 5 && seconds%5 != 0 {
		return
	}
	if seconds <= 0 {
		return
	}
	p.printf("  %ds left...\n", seconds)
}

func (p *terminalPresenter) ShowResult(correct bool, chosen, correctIndex int, explanation string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case correct:
		fmt.Fprintf(p.out, "Correct!\n")
	case chosen < 0:
		fmt.Fprintf(p.out, "Time's up! The right answer was %d.\n", correctIndex+1)
	default:
		fmt.Fprintf(p.out, "Wrong. The right answer was %d.\n", correctIndex+1)
	}
	if explanation != "" {
		fmt.Fprintf(p.out, "%s\n", explanation)
	}
	fmt.Fprintf(p.out, "Press enter for the next question.\n")
}

func (p *terminalPresenter) ShowError(message string) {
	p.printf("%s\n", message)
}

func (p *terminalPresenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}
