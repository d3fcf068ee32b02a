package progression

import (
	"github.com/sol1corejz/greenmart/internal/badges"
	"github.com/sol1corejz/greenmart/internal/models"
	"github.com/sol1corejz/greenmart/internal/session"
)

// BadgeStatus is one badge as shown to a user.
type BadgeStatus struct {
	badges.Definition
	Earned       bool            `json:"earned"`
	Progress     badges.Progress `json:"progress"`
	ProgressText string          `json:"progressText"`
}

// Snapshot is the read model handed to the presentation layer.
type Snapshot struct {
	Email            string        `json:"email"`
	Name             string        `json:"name"`
	OrderCount       int           `json:"orderCount"`
	EWasteSaved      float64       `json:"eWasteSaved"`
	CO2Saved         float64       `json:"co2Saved"`
	TotalSpent       float64       `json:"totalSpent"`
	EWasteItemsSaved int           `json:"eWasteItemsSaved"`
	BadgeState       models.Badges `json:"badgeState"`
	NewlyEarnedBadge *BadgeStatus  `json:"newlyEarnedBadge"`
	Badges           []BadgeStatus `json:"badges"`
}

// Statuses lists every badge, in priority order, with its state for stats.
func Statuses(stats models.UserStats) []BadgeStatus {
	defs := badges.All()
	out := make([]BadgeStatus, 0, len(defs))
	for _, d := range defs {
		out = append(out, status(d, stats))
	}
	return out
}

func status(d badges.Definition, stats models.UserStats) BadgeStatus {
	p, _ := badges.ProgressOf(d.ID, stats)
	return BadgeStatus{
		Definition:   d,
		Earned:       badges.Flag(stats.Badges, d.ID),
		Progress:     p,
		ProgressText: badges.FormatProgress(p.Current, p.Max, d.Metric),
	}
}

// View builds the snapshot of s. An inactive session yields the zero snapshot
// with the badge list computed over zero statistics.
func (e *Engine) View(s *session.Session) Snapshot {
	if !s.Active() {
		return Snapshot{Badges: Statuses(models.UserStats{})}
	}

	stats := s.Stats()
	snap := Snapshot{
		Email:            s.Email(),
		Name:             s.DisplayName(),
		OrderCount:       stats.OrderCount,
		EWasteSaved:      stats.EWasteSaved,
		CO2Saved:         stats.CO2Saved,
		TotalSpent:       stats.TotalSpent,
		EWasteItemsSaved: stats.EWasteItemsSaved,
		BadgeState:       stats.Badges,
		Badges:           Statuses(stats),
	}

	if id := s.NewlyEarned(); id != "" {
		if d, err := badges.Lookup(id); err == nil {
			st := status(d, stats)
			snap.NewlyEarnedBadge = &st
		}
	}

	return snap
}
