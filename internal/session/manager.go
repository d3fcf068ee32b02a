package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sol1corejz/greenmart/internal/auth"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/models"
	"github.com/sol1corejz/greenmart/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingField       = errors.New("missing required field")
	ErrNoActiveSession    = errors.New("no active session")
)

const DefaultAuthDelay = 500 * time.Millisecond

type Options struct {
	// AuthDelay is waited before sign-in and sign-up resolve.
	AuthDelay time.Duration
	// HashPasswords stores new credentials as bcrypt hashes instead of plaintext.
	HashPasswords bool
}

// Manager resolves sign-up and sign-in requests into sessions and owns the
// load/flush cycle of per-account statistics.
type Manager struct {
	repo  *storage.Repository
	opts  Options
	locks *accountLocks

	mu      sync.RWMutex
	byEmail map[string]*Session
	byID    map[string]*Session

	now func() time.Time
}

func NewManager(repo *storage.Repository, opts Options) *Manager {
	return &Manager{
		repo:    repo,
		opts:    opts,
		locks:   newAccountLocks(),
		byEmail: make(map[string]*Session),
		byID:    make(map[string]*Session),
		now:     time.Now,
	}
}

// wait simulates authentication latency. Returning early leaves no trace.
func (m *Manager) wait(ctx context.Context) error {
	if m.opts.AuthDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(m.opts.AuthDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *Manager) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingField
	}

	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(email)
	defer unlock()

	_, exists, err := m.repo.FindCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateAccount
	}

	stored := password
	if m.opts.HashPasswords {
		if stored, err = auth.HashPassword(password); err != nil {
			return nil, err
		}
	}

	// The credential goes in last so a failed stats write leaves no account behind.
	stats, found, err := m.repo.LoadStats(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found {
		if err := m.repo.SaveStats(ctx, email, stats); err != nil {
			return nil, err
		}
	}

	if err := m.repo.AddCredential(ctx, models.Credential{Email: email, Password: stored, Name: name}); err != nil {
		return nil, err
	}

	logger.Log.Info("Account created", zap.String("email", email), zap.Bool("existingStats", found))

	return m.activate(email, name, stats), nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingField
	}

	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(email)
	defer unlock()

	cred, ok, err := m.repo.FindCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	if !auth.ComparePassword(cred.Password, password) {
		return nil, ErrInvalidCredentials
	}

	name := cred.Name
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	if s := m.live(email); s != nil {
		s.touch(m.now())
		return s, nil
	}

	stats, _, err := m.repo.LoadStats(ctx, email)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Signed in", zap.String("email", email))

	return m.activate(email, name, stats), nil
}

// SignOut flushes the statistics of s and ends it. Signing out a nil or already
// ended session does nothing. When the flush fails the session stays active.
func (m *Manager) SignOut(ctx context.Context, s *Session) error {
	_, err := m.signOut(ctx, s, time.Time{})
	return err
}

// SignOutIdle signs s out only if it was last used before cutoff. The check is
// made under the account lock, so a session picked up by a concurrent sign-in
// survives. It reports whether s was ended.
func (m *Manager) SignOutIdle(ctx context.Context, s *Session, cutoff time.Time) (bool, error) {
	return m.signOut(ctx, s, cutoff)
}

// signOut ends s. A non-zero idleBefore skips sessions used at or after it.
func (m *Manager) signOut(ctx context.Context, s *Session, idleBefore time.Time) (bool, error) {
	if s == nil {
		return false, nil
	}

	email := s.account()
	if email == "" {
		return false, nil
	}

	unlock := m.locks.Lock(email)
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false, nil
	}
	if !idleBefore.IsZero() && !s.lastSeen.Before(idleBefore) {
		return false, nil
	}

	if err := m.repo.SaveStats(ctx, email, s.stats); err != nil {
		logger.Log.Error("Failed to flush statistics", zap.String("email", email), zap.Error(err))
		return false, err
	}

	m.mu.Lock()
	if m.byEmail[email] == s {
		delete(m.byEmail, email)
	}
	delete(m.byID, s.id)
	m.mu.Unlock()

	s.clear()

	logger.Log.Info("Signed out", zap.String("email", email))
	return true, nil
}

// SignOutAll ends every active session, flushing each one. The first flush
// error is returned after all sessions were attempted.
func (m *Manager) SignOutAll(ctx context.Context) error {
	var first error
	for _, s := range m.Active() {
		if err := m.SignOut(ctx, s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Lookup returns the active session with the given id and marks it as used.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.byID[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// Active returns a snapshot of all active sessions.
func (m *Manager) Active() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.byID))
	for _, s := range m.byID {
		out = append(out, s)
	}
	return out
}

func (m *Manager) live(email string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byEmail[email]
}

func (m *Manager) activate(email, name string, stats models.UserStats) *Session {
	if s := m.live(email); s != nil {
		s.touch(m.now())
		return s
	}

	s := &Session{
		id:          uuid.NewString(),
		email:       email,
		displayName: name,
		stats:       stats,
		lastSeen:    m.now(),
		active:      true,
		mgr:         m,
	}

	m.mu.Lock()
	m.byEmail[email] = s
	m.byID[s.id] = s
	m.mu.Unlock()

	return s
}
