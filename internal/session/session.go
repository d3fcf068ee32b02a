package session

import (
	"context"
	"sync"
	"time"

	"github.com/sol1corejz/greenmart/internal/badges"
	"github.com/sol1corejz/greenmart/internal/models"
)

// Session is one signed-in account together with its live statistics and the
// most recently earned, not yet acknowledged, badge.
type Session struct {
	mgr *Manager

	mu          sync.Mutex
	id          string
	email       string
	displayName string
	stats       models.UserStats
	newlyEarned badges.ID
	lastSeen    time.Time
	active      bool
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Email() string {
	return s.account()
}

func (s *Session) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayName
}

// Stats returns a copy of the live statistics.
func (s *Session) Stats() models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// NewlyEarned returns the badge awaiting acknowledgement, or "".
func (s *Session) NewlyEarned() badges.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newlyEarned
}

// Acknowledge clears the pending badge notification. Persisted state is untouched.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	s.newlyEarned = ""
	s.mu.Unlock()
}

func (s *Session) Active() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Update runs fn on a copy of the live statistics while holding the account
// lock, persists the result keyed by the account email and only then makes it
// visible. If fn or the write fails the session is left as it was. A non-empty
// badge returned by fn becomes the pending notification.
func (s *Session) Update(ctx context.Context, fn func(stats *models.UserStats) (badges.ID, error)) (badges.ID, error) {
	if s == nil {
		return "", ErrNoActiveSession
	}

	email := s.account()
	if email == "" {
		return "", ErrNoActiveSession
	}

	unlock := s.mgr.locks.Lock(email)
	defer unlock()

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return "", ErrNoActiveSession
	}
	next := s.stats
	s.mu.Unlock()

	earned, err := fn(&next)
	if err != nil {
		return "", err
	}

	if err := s.mgr.repo.SaveStats(ctx, email, next); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.stats = next
	if earned != "" {
		s.newlyEarned = earned
	}
	s.lastSeen = s.mgr.now()
	s.mu.Unlock()

	return earned, nil
}

func (s *Session) account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ""
	}
	return s.email
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastSeen = t
	s.mu.Unlock()
}

// clear resets every field; callers hold s.mu.
func (s *Session) clear() {
	s.email = ""
	s.displayName = ""
	s.stats = models.UserStats{}
	s.newlyEarned = ""
	s.active = false
}
