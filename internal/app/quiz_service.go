package app

import (
	"context"
	"log"

	"learnhub-quiz/internal/domain"
)

// SessionRepository abstracts how per-user quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(userID string, create func() *Session) *Session
	Get(userID string) (*Session, bool)
	DeleteIfIdle(userID string)
}

// ResultRecorder persists completed attempts.
type ResultRecorder interface {
	RecordResult(ctx context.Context, userID string, result domain.QuizResult) error
}

// QuizService contains the quiz-taking use cases, one session per user.
type QuizService struct {
	sessions SessionRepository
	bank     QuestionBank
	recorder ResultRecorder
	opts     []SessionOption
}

// NewQuizService wires the session store and question bank. recorder may be nil.
func NewQuizService(store SessionRepository, bank QuestionBank, recorder ResultRecorder, opts ...SessionOption) *QuizService {
	return &QuizService{sessions: store, bank: bank, recorder: recorder, opts: opts}
}

// Attach returns the user's session snapshot, creating an idle session if needed.
func (s *QuizService) Attach(_ context.Context, userID string) domain.SessionSnapshot {
	return s.session(userID).Snapshot()
}

// Start begins a new attempt for the user.
func (s *QuizService) Start(ctx context.Context, userID, subject string, count int) (domain.SessionSnapshot, error) {
	session := s.session(userID)
	if err := session.Start(ctx, subject, count); err != nil {
		return session.Snapshot(), err
	}
	return session.Snapshot(), nil
}

func (s *QuizService) SelectAnswer(_ context.Context, userID string, option int) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	err := session.SelectAnswer(option)
	return session.Snapshot(), err
}

func (s *QuizService) Advance(_ context.Context, userID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	err := session.Advance()
	return session.Snapshot(), err
}

// AdvanceFrom advances only if the user is still on the given question of the given attempt.
func (s *QuizService) AdvanceFrom(_ context.Context, userID, attemptID string, index int) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	err := session.AdvanceFrom(attemptID, index)
	return session.Snapshot(), err
}

func (s *QuizService) Retake(ctx context.Context, userID string, count int) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	err := session.Retake(ctx, count)
	return session.Snapshot(), err
}

func (s *QuizService) Exit(_ context.Context, userID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	err := session.Exit()
	return session.Snapshot(), err
}

func (s *QuizService) Snapshot(_ context.Context, userID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives session snapshots for a user.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, userID string) (<-chan domain.SessionSnapshot, func(), error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Leave is called after a connection cancels its subscription. The running quiz is
// abandoned and the session dropped only when no other connection still watches it.
func (s *QuizService) Leave(_ context.Context, userID string) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return
	}
	if session.Subscribers() > 0 {
		return
	}
	if session.State() == domain.StateActive {
		_ = session.Exit()
	}
	s.sessions.DeleteIfIdle(userID)
}

func (s *QuizService) session(userID string) *Session {
	return s.sessions.GetOrCreate(userID, func() *Session {
		return s.newSession(userID)
	})
}

func (s *QuizService) newSession(userID string) *Session {
	opts := append([]SessionOption{}, s.opts...)
	opts = append(opts, WithCompletionHook(func(result domain.QuizResult) {
		if s.recorder == nil {
			return
		}
		if err := s.recorder.RecordResult(context.Background(), userID, result); err != nil {
			log.Printf("record result for %s: %v", userID, err)
		}
	}))
	return NewSession(s.bank, opts...)
}
