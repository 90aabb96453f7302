package domain

import (
	"fmt"
	"time"
)

// Unanswered marks a question slot the user never answered.
const Unanswered = -1

// DefaultSubject names the bank used when a subject has no dedicated questions.
const DefaultSubject = "General"

// Difficulty is display metadata only; it never affects scoring.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuizQuestion is an immutable multiple-choice question with exactly one correct option.
type QuizQuestion struct {
	ID                 string     `json:"id" yaml:"id"`
	Question           string     `json:"question" yaml:"question"`
	Options            []string   `json:"options" yaml:"options"`
	CorrectAnswerIndex int        `json:"correctAnswerIndex" yaml:"correct_answer_index"`
	Explanation        string     `json:"explanation" yaml:"explanation"`
	Subject            string     `json:"subject" yaml:"subject"`
	Topic              string     `json:"topic" yaml:"topic"`
	Difficulty         Difficulty `json:"difficulty" yaml:"difficulty"`
	TimeLimitSeconds   int        `json:"timeLimitSeconds" yaml:"time_limit_seconds"` // <= 0 means unset
}

// Validate checks the option and answer-index invariants.
func (q QuizQuestion) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %q has %d options", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
		return fmt.Errorf("%w: question %q correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectAnswerIndex)
	}
	return nil
}

// QuestionView is what a client sees while a question is still open.
type QuestionView struct {
	ID               string     `json:"id"`
	Question         string     `json:"question"`
	Options          []string   `json:"options"`
	Subject          string     `json:"subject"`
	Topic            string     `json:"topic"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
}

// View strips the answer and explanation from a question.
func (q QuizQuestion) View() QuestionView {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return QuestionView{
		ID:               q.ID,
		Question:         q.Question,
		Options:          options,
		Subject:          q.Subject,
		Topic:            q.Topic,
		Difficulty:       q.Difficulty,
		TimeLimitSeconds: q.TimeLimitSeconds,
	}
}

// SessionState is the lifecycle phase of a quiz session.
type SessionState string

const (
	StateSetup    SessionState = "setup"
	StateActive   SessionState = "active"
	StateComplete SessionState = "complete"
)

// QuizResult is the terminal outcome of one attempt.
type QuizResult struct {
	AttemptID      string         `json:"attemptId"`
	Subject        string         `json:"subject"`
	Score          int            `json:"score"`
	CorrectCount   int            `json:"correctCount"`
	TotalQuestions int            `json:"totalQuestions"`
	WeakAreas      []string       `json:"weakAreas"`
	Answers        []int          `json:"answers"`
	Questions      []QuizQuestion `json:"questions"`
	CompletedAt    time.Time      `json:"completedAt"`
}

// SessionSnapshot is a read-only copy of a session, safe to hand to other goroutines.
type SessionSnapshot struct {
	AttemptID            string        `json:"attemptId,omitempty"`
	Subject              string        `json:"subject,omitempty"`
	State                SessionState  `json:"state"`
	CurrentIndex         int           `json:"currentIndex"`
	TotalQuestions       int           `json:"totalQuestions"`
	CurrentQuestion      *QuestionView `json:"currentQuestion,omitempty"`
	TimeRemainingSeconds int           `json:"timeRemainingSeconds"`
	SelectedAnswers      []int         `json:"selectedAnswers"`
	Result               *QuizResult   `json:"result,omitempty"`
}
