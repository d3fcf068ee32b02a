package workers

import (
	"context"
	"time"

	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/session"
	"github.com/sol1corejz/greenmart/internal/tokenstorage"
	"go.uber.org/zap"
)

const WorkerInterval = time.Minute

// InitSessionReaper starts a worker that signs out sessions idle for longer
// than idle. It stops when ctx is done.
func InitSessionReaper(ctx context.Context, sessions *session.Manager, tokens *tokenstorage.TokenStorage, interval, idle time.Duration) {
	if idle <= 0 {
		logger.Log.Info("Session reaper disabled")
		return
	}
	if interval <= 0 {
		interval = WorkerInterval
	}

	go startWorker(ctx, sessions, tokens, interval, idle)

	logger.Log.Info("Session reaper started", zap.Duration("idle", idle))
}

func startWorker(ctx context.Context, sessions *session.Manager, tokens *tokenstorage.TokenStorage, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Session reaper stopped")
			return
		case now := <-ticker.C:
			reapIdleSessions(ctx, sessions, tokens, now, idle)
		}
	}
}

// reapIdleSessions signs out every session whose last activity is older than idle
// and returns how many were ended.
func reapIdleSessions(ctx context.Context, sessions *session.Manager, tokens *tokenstorage.TokenStorage, now time.Time, idle time.Duration) int {
	reaped := 0
	cutoff := now.Add(-idle)

	for _, s := range sessions.Active() {
		if !s.LastActivity().Before(cutoff) {
			continue
		}

		sessionID := s.ID()
		email := s.Email()

		flushCtx, cancel := context.WithTimeout(ctx, time.Second*10)
		ended, err := sessions.SignOutIdle(flushCtx, s, cutoff)
		cancel()
		if err != nil {
			logger.Log.Error("Failed to sign out idle session", zap.String("email", email), zap.Error(err))
			continue
		}
		if !ended {
			continue
		}

		tokens.RevokeSession(sessionID)
		reaped++

		logger.Log.Info("Idle session signed out", zap.String("email", email))
	}

	return reaped
}
