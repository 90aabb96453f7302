package memory

import (
	"context"
	"testing"
	"time"

	"learnhub-quiz/internal/app"
	"learnhub-quiz/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	created := 0
	create := func() *app.Session {
		created++
		return app.NewSession(nil)
	}

	session := store.GetOrCreate("u1", create)
	if session == nil {
		t.Fatalf("expected session")
	}
	if again := store.GetOrCreate("u1", create); again != session || created != 1 {
		t.Fatalf("expected existing session to be reused")
	}
	if _, ok := store.Get("u1"); !ok {
		t.Fatalf("expected session present")
	}

	store.DeleteIfIdle("u1")
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected idle session removed")
	}
}

func TestSessionStoreKeepsWatchedOrActiveSessions(t *testing.T) {
	store := NewSessionStore()
	bank := app.NewQuestionProvider(NewBankRepository(NewStaticBankLoader(map[string][]domain.QuizQuestion{
		domain.DefaultSubject: sampleBank(),
	}), time.Minute))
	session := store.GetOrCreate("u1", func() *app.Session { return app.NewSession(bank) })

	_, cancel := session.Subscribe()
	store.DeleteIfIdle("u1")
	if _, ok := store.Get("u1"); !ok {
		t.Fatalf("expected watched session kept")
	}
	cancel()

	if err := session.Start(context.Background(), "", 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.DeleteIfIdle("u1")
	if _, ok := store.Get("u1"); !ok {
		t.Fatalf("expected active session kept")
	}
	_ = session.Exit()
	store.DeleteIfIdle("u1")
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session removed after exit")
	}
}
