package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"learnhub-quiz/internal/domain"
)

// BankLoader fetches a subject's question bank from a backing store (catalog file, Postgres).
type BankLoader interface {
	LoadBank(ctx context.Context, subject string) ([]domain.QuizQuestion, error)
}

// BankRepository caches question banks with TTL to avoid repeated loader hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	questions []domain.QuizQuestion
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, subject string) ([]domain.QuizQuestion, error) {
	if questions, ok := r.cached(subject, r.clock()); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(subject, func() (interface{}, error) {
		now := r.clock()
		if questions, ok := r.cached(subject, now); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx, subject)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[subject] = cachedBank{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizQuestion), nil
}

func (r *BankRepository) cached(subject string, now time.Time) ([]domain.QuizQuestion, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[subject]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.questions, true
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader is a loader backed by an in-memory map (catalog file, tests, demos).
type StaticBankLoader struct {
	banks map[string][]domain.QuizQuestion
}

func NewStaticBankLoader(banks map[string][]domain.QuizQuestion) *StaticBankLoader {
	return &StaticBankLoader{banks: banks}
}

func (l *StaticBankLoader) LoadBank(_ context.Context, subject string) ([]domain.QuizQuestion, error) {
	if questions, ok := l.banks[subject]; ok {
		return questions, nil
	}
	return nil, domain.ErrSubjectNotFound
}

