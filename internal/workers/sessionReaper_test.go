package workers

import (
	"context"
	"testing"
	"time"

	"github.com/sol1corejz/greenmart/internal/session"
	"github.com/sol1corejz/greenmart/internal/storage"
	"github.com/sol1corejz/greenmart/internal/tokenstorage"
)

func TestReapIdleSessions(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewRepository(storage.NewMemoryStore())
	sessions := session.NewManager(repo, session.Options{})
	tokens := tokenstorage.New()

	s, err := sessions.SignUp(ctx, "a@x.io", "pw", "Alice")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	tokens.AddToken("token", s.ID())

	if n := reapIdleSessions(ctx, sessions, tokens, time.Now(), time.Hour); n != 0 {
		t.Fatalf("fresh session should not be reaped, got %d", n)
	}

	if n := reapIdleSessions(ctx, sessions, tokens, time.Now().Add(2*time.Hour), time.Hour); n != 1 {
		t.Fatalf("expected 1 reaped session, got %d", n)
	}
	if s.Active() {
		t.Error("reaped session is still active")
	}
	if _, ok := tokens.CheckToken("token"); ok {
		t.Error("token of reaped session is still valid")
	}
	if _, found, err := repo.LoadStats(ctx, "a@x.io"); err != nil || !found {
		t.Errorf("stats were not flushed: found=%v err=%v", found, err)
	}
}

func TestSessionReaperStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := storage.NewRepository(storage.NewMemoryStore())
	sessions := session.NewManager(repo, session.Options{})
	tokens := tokenstorage.New()

	s, err := sessions.SignUp(ctx, "a@x.io", "pw", "Alice")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	InitSessionReaper(ctx, sessions, tokens, 10*time.Millisecond, time.Nanosecond)

	deadline := time.Now().Add(2 * time.Second)
	for s.Active() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if s.Active() {
		t.Fatal("idle session was not reaped by the worker")
	}
}
