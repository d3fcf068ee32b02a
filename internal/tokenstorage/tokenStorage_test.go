package tokenstorage

import (
	"testing"
)

func TestTokenStorage(t *testing.T) {
	s := New()

	s.AddToken("t1", "session-a")
	s.AddToken("t2", "session-a")
	s.AddToken("t3", "session-b")

	if id, ok := s.CheckToken("t1"); !ok || id != "session-a" {
		t.Fatalf("CheckToken(t1) = %q, %v", id, ok)
	}
	if _, ok := s.CheckToken("unknown"); ok {
		t.Fatal("unknown token must not be accepted")
	}

	s.RevokeToken("t3")
	if _, ok := s.CheckToken("t3"); ok {
		t.Error("revoked token is still accepted")
	}

	if n := s.RevokeSession("session-a"); n != 2 {
		t.Errorf("expected 2 revoked tokens, got %d", n)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty storage, got %d tokens", s.Len())
	}
}
