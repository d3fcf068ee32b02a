package session

import "sync"

// accountLocks hands out one mutex per account email. Entries are dropped once
// nobody holds or waits for them.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*accountLock)}
}

// Lock blocks until the lock for email is held and returns its release func.
func (a *accountLocks) Lock(email string) func() {
	a.mu.Lock()
	l, ok := a.locks[email]
	if !ok {
		l = &accountLock{}
		a.locks[email] = l
	}
	l.refs++
	a.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		a.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(a.locks, email)
		}
		a.mu.Unlock()
	}
}
