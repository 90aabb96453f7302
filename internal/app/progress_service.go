package app

import (
	"context"
	"encoding/json"
	"fmt"

	"learnhub-quiz/internal/domain"
)

// KeyValueStore is the persistence collaborator for per-user progress data.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DefaultHistoryLimit caps how many completed attempts are kept per user.
const DefaultHistoryLimit = 50

// ProgressService keeps quiz history and bookmarked questions.
type ProgressService struct {
	store        KeyValueStore
	historyLimit int
}

func NewProgressService(store KeyValueStore, historyLimit int) *ProgressService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &ProgressService{store: store, historyLimit: historyLimit}
}

// RecordResult prepends a completed attempt to the user's history.
func (p *ProgressService) RecordResult(ctx context.Context, userID string, result domain.QuizResult) error {
	history, err := p.History(ctx, userID)
	if err != nil {
		return err
	}
	history = append([]domain.QuizResult{result}, history...)
	if len(history) > p.historyLimit {
		history = history[:p.historyLimit]
	}
	return p.put(ctx, historyKey(userID), history)
}

// History returns completed attempts, newest first.
func (p *ProgressService) History(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	history := []domain.QuizResult{}
	if err := p.get(ctx, historyKey(userID), &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ToggleBookmark adds or removes a question id and reports whether it is now bookmarked.
func (p *ProgressService) ToggleBookmark(ctx context.Context, userID, questionID string) (bool, error) {
	bookmarks, err := p.Bookmarks(ctx, userID)
	if err != nil {
		return false, err
	}
	for i, id := range bookmarks {
		if id == questionID {
			bookmarks = append(bookmarks[:i], bookmarks[i+1:]...)
			if len(bookmarks) == 0 {
				return false, p.store.Delete(ctx, bookmarksKey(userID))
			}
			return false, p.put(ctx, bookmarksKey(userID), bookmarks)
		}
	}
	bookmarks = append(bookmarks, questionID)
	return true, p.put(ctx, bookmarksKey(userID), bookmarks)
}

// Bookmarks returns bookmarked question ids in the order they were added.
func (p *ProgressService) Bookmarks(ctx context.Context, userID string) ([]string, error) {
	bookmarks := []string{}
	if err := p.get(ctx, bookmarksKey(userID), &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (p *ProgressService) get(ctx context.Context, key string, out any) error {
	raw, ok, err := p.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (p *ProgressService) put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := p.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func historyKey(userID string) string {
	return "history:" + userID
}

func bookmarksKey(userID string) string {
	return "bookmarks:" + userID
}
