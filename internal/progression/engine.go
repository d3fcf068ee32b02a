package progression

import (
	"context"
	"errors"

	"github.com/sol1corejz/greenmart/internal/badges"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/models"
	"github.com/sol1corejz/greenmart/internal/session"
	"go.uber.org/zap"
)

var ErrInvalidImpact = errors.New("impact values must not be negative")

// Engine accumulates purchase impact into session statistics and awards badges.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Apply adds one purchase to stats and re-evaluates every badge. It returns the
// badge that became earned by this purchase, if any.
func Apply(stats *models.UserStats, impact models.Impact) badges.ID {
	stats.OrderCount++
	stats.EWasteSaved += impact.EWasteMass
	stats.CO2Saved += impact.CO2Mass
	stats.TotalSpent += impact.Price
	if badges.IsElectronicsCategory(impact.Category) {
		stats.EWasteItemsSaved++
	}

	flags, newly := badges.Evaluate(*stats)
	stats.Badges = flags
	return newly
}

// RecordPurchase applies impact to the statistics of s and persists them before
// returning. The result is the newly earned badge, or "" when none was earned.
func (e *Engine) RecordPurchase(ctx context.Context, s *session.Session, impact models.Impact) (badges.ID, error) {
	if !s.Active() {
		return "", session.ErrNoActiveSession
	}
	if impact.EWasteMass < 0 || impact.CO2Mass < 0 || impact.Price < 0 {
		return "", ErrInvalidImpact
	}

	earned, err := s.Update(ctx, func(stats *models.UserStats) (badges.ID, error) {
		return Apply(stats, impact), nil
	})
	if err != nil {
		return "", err
	}

	if earned != "" {
		logger.Log.Info("Badge earned", zap.String("email", s.Email()), zap.String("badge", string(earned)))
	}

	return earned, nil
}

// Acknowledge clears the pending badge notification of s.
func (e *Engine) Acknowledge(s *session.Session) error {
	if !s.Active() {
		return session.ErrNoActiveSession
	}
	s.Acknowledge()
	return nil
}
