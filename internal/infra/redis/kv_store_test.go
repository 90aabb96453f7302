package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"learnhub-quiz/internal/app"
	"learnhub-quiz/internal/domain"
)

func TestKVStorePrefixesKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewKVStore(newClient(mr))

	if _, ok, err := store.Get(ctx, "bookmarks:u1"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "bookmarks:u1", []byte(`["q1"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("learnhub:bookmarks:u1"); got != `["q1"]` {
		t.Fatalf("expected prefixed key, got %q", got)
	}
	if err := store.Delete(ctx, "bookmarks:u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("learnhub:bookmarks:u1") {
		t.Fatalf("expected key removed")
	}
}

func TestProgressServiceOnRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	progress := app.NewProgressService(NewKVStore(newClient(mr)), 0)

	if err := progress.RecordResult(ctx, "u1", domain.QuizResult{AttemptID: "a1", Score: 80, WeakAreas: []string{"calculus"}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	history, err := progress.History(ctx, "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].AttemptID != "a1" || history[0].WeakAreas[0] != "calculus" {
		t.Fatalf("unexpected history %+v", history)
	}
	if !mr.Exists("learnhub:history:u1") {
		t.Fatalf("expected history persisted in redis")
	}
}
