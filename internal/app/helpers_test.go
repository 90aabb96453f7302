package app_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"learnhub-quiz/internal/app"
	"learnhub-quiz/internal/domain"
)

// manualClock hands out tickers that only fire when a test says so.
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped.Store(true) }

func (c *manualClock) NewTicker(time.Duration) app.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) latest(t *testing.T) *manualTicker {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		t.Fatalf("no countdown started")
	}
	return c.tickers[len(c.tickers)-1]
}

func (c *manualClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (tk *manualTicker) fire() {
	tk.ch <- time.Now()
}

// stubBank returns up to count of its questions, in order.
type stubBank struct {
	questions []domain.QuizQuestion
	err       error
	calls     atomic.Int32
}

func (b *stubBank) GetQuestions(_ context.Context, _ string, count int) ([]domain.QuizQuestion, error) {
	b.calls.Add(1)
	if b.err != nil {
		return nil, b.err
	}
	n := min(count, len(b.questions))
	return append([]domain.QuizQuestion(nil), b.questions[:n]...), nil
}

// testQuestions builds n questions; question i has correct index i%4, topic "topic-i"
// and a limit of limits[i] seconds (or 30 when limits is short).
func testQuestions(n int, limits ...int) []domain.QuizQuestion {
	questions := make([]domain.QuizQuestion, n)
	for i := range questions {
		limit := 30
		if i < len(limits) {
			limit = limits[i]
		}
		questions[i] = domain.QuizQuestion{
			ID:                 fmt.Sprintf("q%d", i+1),
			Question:           fmt.Sprintf("Question %d", i+1),
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: i % 4,
			Explanation:        "see notes",
			Subject:            "Mathematics",
			Topic:              fmt.Sprintf("topic-%d", i+1),
			Difficulty:         domain.DifficultyMedium,
			TimeLimitSeconds:   limit,
		}
	}
	return questions
}

func newManualSession(t *testing.T, bank app.QuestionBank, opts ...app.SessionOption) (*app.Session, *manualClock, <-chan domain.SessionSnapshot) {
	t.Helper()
	clock := &manualClock{}
	opts = append([]app.SessionOption{app.WithTicker(clock.NewTicker)}, opts...)
	session := app.NewSession(bank, opts...)
	updates, cancel := session.Subscribe()
	t.Cleanup(func() {
		cancel()
		session.Close()
	})
	<-updates // initial snapshot
	return session, clock, updates
}

// waitFor reads snapshots until match returns true.
func waitFor(t *testing.T, updates <-chan domain.SessionSnapshot, match func(domain.SessionSnapshot) bool) domain.SessionSnapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				t.Fatalf("subscription closed")
			}
			if match(snap) {
				return snap
			}
		case <-timeout:
			t.Fatalf("timed out waiting for session update")
		}
	}
}

func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}
