package progression

import (
	"context"
	"errors"
	"testing"

	"github.com/sol1corejz/greenmart/internal/badges"
	"github.com/sol1corejz/greenmart/internal/models"
	"github.com/sol1corejz/greenmart/internal/session"
	"github.com/sol1corejz/greenmart/internal/storage"
)

type fixture struct {
	mgr    *session.Manager
	repo   *storage.Repository
	engine *Engine
}

func setup(t *testing.T) fixture {
	t.Helper()
	repo := storage.NewRepository(storage.NewMemoryStore())
	return fixture{
		mgr:    session.NewManager(repo, session.Options{}),
		repo:   repo,
		engine: NewEngine(),
	}
}

func (f fixture) signUp(t *testing.T, email string) *session.Session {
	t.Helper()
	s, err := f.mgr.SignUp(context.Background(), email, "pw", "Tester")
	if err != nil {
		t.Fatalf("SignUp(%s) failed: %v", email, err)
	}
	return s
}

func (f fixture) buy(t *testing.T, s *session.Session, impact models.Impact) badges.ID {
	t.Helper()
	id, err := f.engine.RecordPurchase(context.Background(), s, impact)
	if err != nil {
		t.Fatalf("RecordPurchase failed: %v", err)
	}
	return id
}

func TestFirstPurchase(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	id := f.buy(t, s, models.Impact{EWasteMass: 1000, CO2Mass: 6000, Price: 500, Category: "Laptop"})
	if id != badges.FirstOrder {
		t.Fatalf("expected %s, got %q", badges.FirstOrder, id)
	}

	got := s.Stats()
	want := models.UserStats{
		OrderCount:       1,
		EWasteSaved:      1000,
		CO2Saved:         6000,
		TotalSpent:       500,
		EWasteItemsSaved: 1,
		Badges:           models.Badges{FirstOrder: true},
	}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}

	stored, _, _ := f.repo.LoadStats(context.Background(), "a@x.io")
	if stored != want {
		t.Errorf("persisted stats = %+v, want %+v", stored, want)
	}

	if s.NewlyEarned() != badges.FirstOrder {
		t.Errorf("pending notification = %q", s.NewlyEarned())
	}
}

func TestCO2Boundary(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	f.buy(t, s, models.Impact{CO2Mass: 30000, Category: "Books"})
	if id := f.buy(t, s, models.Impact{CO2Mass: 19999, Category: "Books"}); id != "" {
		t.Fatalf("unexpected badge %q at 49999g", id)
	}
	if s.Stats().Badges.CO2Milestone {
		t.Fatalf("co2 milestone set below threshold")
	}

	if id := f.buy(t, s, models.Impact{CO2Mass: 1, Category: "Books"}); id != badges.CO2Milestone {
		t.Fatalf("expected %s at 50000g, got %q", badges.CO2Milestone, id)
	}
	if !s.Stats().Badges.CO2Milestone {
		t.Errorf("co2 milestone not set")
	}
}

func TestPrioritySuppression(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	id := f.buy(t, s, models.Impact{EWasteMass: 10000, CO2Mass: 60000, Price: 40000, Category: "Home Appliance"})
	if id != badges.FirstOrder {
		t.Fatalf("expected only %s, got %q", badges.FirstOrder, id)
	}
	flags := s.Stats().Badges
	if !flags.FirstOrder || !flags.CO2Milestone {
		t.Errorf("co2 milestone must be set silently: %+v", flags)
	}

	if id := f.buy(t, s, models.Impact{CO2Mass: 10, Category: "Books"}); id != "" {
		t.Errorf("silently earned badge reported later: %q", id)
	}
}

func TestElectronicsMilestone(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	var last badges.ID
	for i := 0; i < 10; i++ {
		f.buy(t, s, models.Impact{EWasteMass: 100, CO2Mass: 600, Price: 200, Category: "Clothes"})
	}
	if s.Stats().EWasteItemsSaved != 0 {
		t.Fatalf("non-electronics purchases counted")
	}

	for i := 0; i < 10; i++ {
		last = f.buy(t, s, models.Impact{EWasteMass: 200, CO2Mass: 1200, Price: 5000, Category: "Mobile"})
	}
	if last != badges.ElectronicsMilestone {
		t.Errorf("expected %s on the tenth electronics item, got %q", badges.ElectronicsMilestone, last)
	}
}

func TestMonotonicity(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	impacts := []models.Impact{
		{EWasteMass: 2500, CO2Mass: 15000, Price: 30000, Category: "Laptop"},
		{EWasteMass: 0, CO2Mass: 0, Price: 0, Category: "Books"},
		{EWasteMass: 200, CO2Mass: 40000, Price: 1, Category: "Mobile"},
		{EWasteMass: 8000, CO2Mass: 0, Price: 700, Category: "Furniture"},
	}

	prev := s.Stats()
	for _, im := range impacts {
		f.buy(t, s, im)
		cur := s.Stats()
		if cur.OrderCount < prev.OrderCount || cur.EWasteSaved < prev.EWasteSaved ||
			cur.CO2Saved < prev.CO2Saved || cur.TotalSpent < prev.TotalSpent ||
			cur.EWasteItemsSaved < prev.EWasteItemsSaved {
			t.Fatalf("counter decreased: %+v -> %+v", prev, cur)
		}
		if (prev.Badges.FirstOrder && !cur.Badges.FirstOrder) ||
			(prev.Badges.CO2Milestone && !cur.Badges.CO2Milestone) ||
			(prev.Badges.ElectronicsMilestone && !cur.Badges.ElectronicsMilestone) {
			t.Fatalf("badge unset: %+v -> %+v", prev.Badges, cur.Badges)
		}
		prev = cur
	}
}

func TestRejectsNegativeImpact(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	_, err := f.engine.RecordPurchase(context.Background(), s, models.Impact{CO2Mass: -1})
	if !errors.Is(err, ErrInvalidImpact) {
		t.Fatalf("expected ErrInvalidImpact, got %v", err)
	}
	if s.Stats().OrderCount != 0 {
		t.Errorf("rejected purchase was applied")
	}
}

func TestNoActiveSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.engine.RecordPurchase(ctx, nil, models.Impact{}); !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession for nil session, got %v", err)
	}

	s := f.signUp(t, "a@x.io")
	f.mgr.SignOut(ctx, s)
	if _, err := f.engine.RecordPurchase(ctx, s, models.Impact{}); !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession after sign out, got %v", err)
	}
	if err := f.engine.Acknowledge(s); !errors.Is(err, session.ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession on acknowledge, got %v", err)
	}
}

func TestIsolationAcrossAccounts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a := f.signUp(t, "a@x.io")
	b := f.signUp(t, "b@x.io")
	f.buy(t, b, models.Impact{EWasteMass: 10, CO2Mass: 60, Price: 5, Category: "Mobile"})
	before, _, _ := f.repo.LoadStats(ctx, "b@x.io")

	for i := 0; i < 3; i++ {
		f.buy(t, a, models.Impact{EWasteMass: 2500, CO2Mass: 15000, Price: 100, Category: "Laptop"})
	}

	after, _, _ := f.repo.LoadStats(ctx, "b@x.io")
	if after != before || b.Stats() != before {
		t.Errorf("account b changed: %+v -> %+v", before, after)
	}
}

func TestReloadAcrossSessions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	s := f.signUp(t, "a@x.io")
	for i := 0; i < 5; i++ {
		f.buy(t, s, models.Impact{EWasteMass: 2500, CO2Mass: 15000, Price: 20000, Category: "Laptop"})
	}
	before := s.Stats()

	if err := f.mgr.SignOut(ctx, s); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	again, err := f.mgr.SignIn(ctx, "a@x.io", "pw")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if again.Stats() != before {
		t.Errorf("reloaded %+v, want %+v", again.Stats(), before)
	}
	if again.NewlyEarned() != "" {
		t.Errorf("notification must not survive sign out")
	}
}

func TestViewAndAcknowledge(t *testing.T) {
	f := setup(t)
	s := f.signUp(t, "a@x.io")

	f.buy(t, s, models.Impact{EWasteMass: 1000, CO2Mass: 6000, Price: 500, Category: "Laptop"})

	snap := f.engine.View(s)
	if snap.OrderCount != 1 || snap.CO2Saved != 6000 || snap.Email != "a@x.io" || snap.Name != "Tester" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.NewlyEarnedBadge == nil || snap.NewlyEarnedBadge.ID != badges.FirstOrder {
		t.Fatalf("expected pending first order badge, got %+v", snap.NewlyEarnedBadge)
	}
	if len(snap.Badges) != 3 {
		t.Fatalf("expected 3 badges, got %d", len(snap.Badges))
	}
	co2 := snap.Badges[1]
	if co2.Earned || co2.Progress.Current != 6000 || co2.ProgressText != "6.0/50.0 kg CO₂" {
		t.Errorf("unexpected co2 status %+v", co2)
	}

	if err := f.engine.Acknowledge(s); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	if snap := f.engine.View(s); snap.NewlyEarnedBadge != nil {
		t.Errorf("notification still pending after acknowledge")
	}
	if !s.Stats().Badges.FirstOrder {
		t.Errorf("acknowledge cleared the badge flag")
	}
}

func TestViewInactive(t *testing.T) {
	f := setup(t)
	snap := f.engine.View(nil)
	if snap.OrderCount != 0 || len(snap.Badges) != 3 || snap.Badges[0].Earned {
		t.Errorf("unexpected snapshot for inactive session %+v", snap)
	}
}
