package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnhub-quiz/internal/domain"
)

// BankRepository loads a subject's full question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, subject string) ([]domain.QuizQuestion, error)
}

// QuestionBank hands out the questions for one quiz attempt.
type QuestionBank interface {
	GetQuestions(ctx context.Context, subject string, count int) ([]domain.QuizQuestion, error)
}

// QuestionProvider selects questions from subject banks, falling back to the default bank.
type QuestionProvider struct {
	banks BankRepository
	now   func() time.Time
}

func NewQuestionProvider(banks BankRepository) *QuestionProvider {
	return NewQuestionProviderWithClock(banks, time.Now)
}

// NewQuestionProviderWithClock is used by tests that need predictable attempt ids.
func NewQuestionProviderWithClock(banks BankRepository, now func() time.Time) *QuestionProvider {
	return &QuestionProvider{banks: banks, now: now}
}

// GetQuestions returns the first min(count, len(bank)) questions, each with an id unique to this call.
// Ids and blank subjects follow the bank that was served, so a fallback yields General questions.
func (p *QuestionProvider) GetQuestions(ctx context.Context, subject string, count int) ([]domain.QuizQuestion, error) {
	if count < 1 {
		return nil, domain.ErrInvalidQuestionCount
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = domain.DefaultSubject
	}

	// resolved names the bank actually served, which differs from subject after a fallback
	resolved := subject
	bank, err := p.banks.GetBank(ctx, subject)
	if errors.Is(err, domain.ErrSubjectNotFound) && subject != domain.DefaultSubject {
		resolved = domain.DefaultSubject
		bank, err = p.banks.GetBank(ctx, resolved)
	}
	if err != nil {
		return nil, fmt.Errorf("load bank %q: %w", subject, err)
	}

	if count > len(bank) {
		count = len(bank)
	}
	stamp := p.now().UnixMilli()
	prefix := slug(resolved)

	questions := make([]domain.QuizQuestion, 0, count)
	for _, q := range bank[:count] {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		q.Options = options
		q.ID = fmt.Sprintf("%s-%d-%s", prefix, stamp, q.ID)
		if q.Subject == "" {
			q.Subject = resolved
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
