package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"learnhub-quiz/internal/domain"
)

// DefaultTimeLimitSeconds applies to questions that carry no limit of their own.
const DefaultTimeLimitSeconds = 60

// Ticker delivers countdown ticks for a single question.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates the ticker backing one question's countdown.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithTicker replaces the wall-clock ticker, mainly for tests.
func WithTicker(f TickerFunc) SessionOption {
	return func(s *Session) { s.newTicker = f }
}

// WithClock sets the clock used for completion timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithDefaultTimeLimit sets the countdown used for questions without a limit.
func WithDefaultTimeLimit(seconds int) SessionOption {
	return func(s *Session) {
		if seconds > 0 {
			s.defaultLimit = seconds
		}
	}
}

// WithRequireAnswer makes manual advances fail on an unanswered question.
// Timer expiry always advances.
func WithRequireAnswer(require bool) SessionOption {
	return func(s *Session) { s.requireAnswer = require }
}

// WithCompletionHook registers a callback run once per completed attempt, outside the session lock.
func WithCompletionHook(hook func(domain.QuizResult)) SessionOption {
	return func(s *Session) { s.onComplete = hook }
}

// Session is the quiz-taking state machine for one user: setup -> active -> complete.
//
// Ticks and direct calls serialise on mu. Every countdown goroutine is bound to the
// epoch it was started for; any change of question bumps the epoch and cancels the
// previous countdown, so a late tick can never advance a question twice.
type Session struct {
	bank          QuestionBank
	newTicker     TickerFunc
	tickInterval  time.Duration
	now           func() time.Time
	defaultLimit  int
	requireAnswer bool
	onComplete    func(domain.QuizResult)

	mu          sync.RWMutex
	state       domain.SessionState
	attemptID   string
	subject     string
	count       int
	questions   []domain.QuizQuestion
	selected    []int
	current     int
	remaining   int
	result      *domain.QuizResult
	epoch       uint64
	cancelTimer context.CancelFunc
	subscribers map[chan domain.SessionSnapshot]struct{}
}

func NewSession(bank QuestionBank, opts ...SessionOption) *Session {
	s := &Session{
		bank:         bank,
		newTicker:    newTimeTicker,
		tickInterval: time.Second,
		now:          time.Now,
		defaultLimit: DefaultTimeLimitSeconds,
		state:        domain.StateSetup,
		subscribers:  make(map[chan domain.SessionSnapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start fetches questions and begins a fresh attempt. Allowed from setup or complete.
func (s *Session) Start(ctx context.Context, subject string, count int) error {
	return s.start(ctx, subject, count, domain.StateSetup, domain.StateComplete)
}

// Retake restarts a completed quiz on the same subject. A zero count reuses the previous count.
func (s *Session) Retake(ctx context.Context, count int) error {
	s.mu.RLock()
	subject, previous := s.subject, s.count
	s.mu.RUnlock()
	if count == 0 {
		count = previous
	}
	return s.start(ctx, subject, count, domain.StateComplete)
}

func (s *Session) start(ctx context.Context, subject string, count int, allowed ...domain.SessionState) error {
	if err := s.checkState("start", allowed...); err != nil {
		return err
	}
	if count < 1 {
		return domain.ErrInvalidQuestionCount
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = domain.DefaultSubject
	}
	questions, err := s.bank.GetQuestions(ctx, subject, count)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: subject %q", domain.ErrEmptyQuestionSet, subject)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// state may have moved while questions were loading
	if err := s.checkStateLocked("start", allowed...); err != nil {
		return err
	}

	s.attemptID = uuid.NewString()
	s.subject = subject
	s.count = count
	s.questions = questions
	s.selected = make([]int, len(questions))
	for i := range s.selected {
		s.selected[i] = domain.Unanswered
	}
	s.current = 0
	s.result = nil
	s.state = domain.StateActive
	s.restartCountdownLocked()
	s.broadcastLocked()
	return nil
}

// SelectAnswer records the option for the current question, replacing any earlier choice.
func (s *Session) SelectAnswer(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStateLocked("select answer", domain.StateActive); err != nil {
		return err
	}
	q := s.questions[s.current]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("%w: %d not in [0,%d)", domain.ErrOptionOutOfRange, option, len(q.Options))
	}
	s.selected[s.current] = option
	s.broadcastLocked()
	return nil
}

// Advance moves to the next question, or completes the quiz on the last one.
func (s *Session) Advance() error {
	s.mu.Lock()
	if err := s.checkStateLocked("advance", domain.StateActive); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.requireAnswer && s.selected[s.current] == domain.Unanswered {
		s.mu.Unlock()
		return domain.ErrUnanswered
	}
	completed := s.advanceLocked()
	s.mu.Unlock()

	s.notifyComplete(completed)
	return nil
}

// AdvanceFrom advances only if the session is still on question index of the given attempt.
// An empty attemptID means the current attempt. A stale index is not an error: the
// countdown (or an earlier click) already moved past it.
func (s *Session) AdvanceFrom(attemptID string, index int) error {
	s.mu.Lock()
	if attemptID != "" && attemptID != s.attemptID {
		s.mu.Unlock()
		return nil
	}
	if s.state == domain.StateComplete {
		s.mu.Unlock()
		return nil
	}
	if err := s.checkStateLocked("advance", domain.StateActive); err != nil {
		s.mu.Unlock()
		return err
	}
	if index < s.current {
		s.mu.Unlock()
		return nil
	}
	if index > s.current {
		s.mu.Unlock()
		return fmt.Errorf("%w: advance from question %d while on %d", domain.ErrInvalidTransition, index, s.current)
	}
	if s.requireAnswer && s.selected[s.current] == domain.Unanswered {
		s.mu.Unlock()
		return domain.ErrUnanswered
	}
	completed := s.advanceLocked()
	s.mu.Unlock()

	s.notifyComplete(completed)
	return nil
}

// Exit abandons an active quiz without scoring and returns the session to setup.
func (s *Session) Exit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkStateLocked("exit", domain.StateActive); err != nil {
		return err
	}
	s.stopCountdownLocked()
	s.epoch++
	s.state = domain.StateSetup
	s.attemptID = ""
	s.questions = nil
	s.selected = nil
	s.current = 0
	s.remaining = 0
	s.result = nil
	s.broadcastLocked()
	return nil
}

// Close stops any countdown and closes all subscriptions.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopCountdownLocked()
	s.epoch++
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) AttemptID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attemptID
}

func (s *Session) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentQuestion returns the open question; ok is false outside the active state.
func (s *Session) CurrentQuestion() (domain.QuizQuestion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.StateActive {
		return domain.QuizQuestion{}, false
	}
	return s.questions[s.current], true
}

func (s *Session) TimeRemaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining
}

// SelectedAnswers returns a copy of the answer slots.
func (s *Session) SelectedAnswers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.selected...)
}

// Questions returns a copy of the attempt's question set.
func (s *Session) Questions() []domain.QuizQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.QuizQuestion(nil), s.questions...)
}

// Result returns the cached outcome of a completed attempt.
func (s *Session) Result() (domain.QuizResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return domain.QuizResult{}, false
	}
	return copyResult(*s.result), true
}

func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribers reports how many subscriptions are open.
func (s *Session) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// IsIdle reports whether no quiz is running and nobody is watching the session.
func (s *Session) IsIdle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != domain.StateActive && len(s.subscribers) == 0
}

// Subscribe returns a channel receiving a snapshot after every change and every tick.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	// the initial snapshot goes in under the lock so no broadcast can overtake it;
	// the fresh buffer cannot block
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// advanceLocked is the single advance path shared by manual calls and countdown expiry.
// It returns the result when this call completed the quiz.
func (s *Session) advanceLocked() *domain.QuizResult {
	if s.current < len(s.questions)-1 {
		s.current++
		s.restartCountdownLocked()
		s.broadcastLocked()
		return nil
	}

	s.stopCountdownLocked()
	s.epoch++
	score, correct, weak := Evaluate(s.questions, s.selected)
	s.result = &domain.QuizResult{
		AttemptID:      s.attemptID,
		Subject:        s.subject,
		Score:          score,
		CorrectCount:   correct,
		TotalQuestions: len(s.questions),
		WeakAreas:      weak,
		Answers:        append([]int(nil), s.selected...),
		Questions:      append([]domain.QuizQuestion(nil), s.questions...),
		CompletedAt:    s.now(),
	}
	s.state = domain.StateComplete
	s.remaining = 0
	s.broadcastLocked()

	result := copyResult(*s.result)
	return &result
}

func (s *Session) restartCountdownLocked() {
	s.stopCountdownLocked()
	s.epoch++
	s.remaining = s.limitLocked(s.current)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelTimer = cancel
	go s.runCountdown(ctx, s.newTicker(s.tickInterval), s.epoch)
}

func (s *Session) stopCountdownLocked() {
	if s.cancelTimer != nil {
		s.cancelTimer()
		s.cancelTimer = nil
	}
}

func (s *Session) runCountdown(ctx context.Context, ticker Ticker, epoch uint64) {
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !s.tick(epoch) {
				return
			}
		}
	}
}

// tick decrements the countdown for epoch and auto-advances at zero.
// It reports whether the countdown goroutine should keep running.
func (s *Session) tick(epoch uint64) bool {
	s.mu.Lock()
	if s.state != domain.StateActive || s.epoch != epoch {
		s.mu.Unlock()
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.broadcastLocked()
		s.mu.Unlock()
		return true
	}
	completed := s.advanceLocked()
	s.mu.Unlock()

	s.notifyComplete(completed)
	return false
}

func (s *Session) limitLocked(index int) int {
	if limit := s.questions[index].TimeLimitSeconds; limit > 0 {
		return limit
	}
	return s.defaultLimit
}

func (s *Session) notifyComplete(result *domain.QuizResult) {
	if result != nil && s.onComplete != nil {
		s.onComplete(*result)
	}
}

func (s *Session) checkState(op string, allowed ...domain.SessionState) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkStateLocked(op, allowed...)
}

func (s *Session) checkStateLocked(op string, allowed ...domain.SessionState) error {
	for _, state := range allowed {
		if s.state == state {
			return nil
		}
	}
	return fmt.Errorf("%w: %s while %s", domain.ErrInvalidTransition, op, s.state)
}

func (s *Session) broadcastLocked() {
	snapshot := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snapshot:
		default:
			// drop the oldest pending snapshot so a slow reader never blocks the countdown
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snapshot := domain.SessionSnapshot{
		AttemptID:            s.attemptID,
		Subject:              s.subject,
		State:                s.state,
		CurrentIndex:         s.current,
		TotalQuestions:       len(s.questions),
		TimeRemainingSeconds: s.remaining,
		SelectedAnswers:      append([]int{}, s.selected...),
	}
	if s.state == domain.StateActive {
		view := s.questions[s.current].View()
		snapshot.CurrentQuestion = &view
	}
	if s.result != nil {
		result := copyResult(*s.result)
		snapshot.Result = &result
	}
	return snapshot
}

func copyResult(r domain.QuizResult) domain.QuizResult {
	r.WeakAreas = append([]string{}, r.WeakAreas...)
	r.Answers = append([]int(nil), r.Answers...)
	r.Questions = append([]domain.QuizQuestion(nil), r.Questions...)
	return r
}
