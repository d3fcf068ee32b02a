package badges

import (
	"errors"
	"fmt"
	"math"

	"github.com/sol1corejz/greenmart/internal/models"
)

type ID string

const (
	FirstOrder           ID = "firstOrder"
	CO2Milestone         ID = "co2Milestone"
	ElectronicsMilestone ID = "electronicsMilestone"
)

type Metric string

const (
	MetricOrders Metric = "orders"
	MetricCO2    Metric = "co2"
	MetricItems  Metric = "items"
)

const (
	FirstOrderThreshold           = 1
	CO2MilestoneThreshold         = 50000 // grams
	ElectronicsMilestoneThreshold = 10
)

var ErrUnknownBadge = errors.New("unknown badge")

// Definition describes a badge and the counter it is measured on.
type Definition struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Description string  `json:"description"`
	Requirement string  `json:"requirement"`
	Metric      Metric  `json:"metric"`
	Threshold   float64 `json:"threshold"`
}

// definitions is kept in notification priority order.
var definitions = []Definition{
	{
		ID:          FirstOrder,
		Name:        "Green Starter",
		Icon:        "🌱",
		Description: "Welcome to the eco-friendly community!",
		Requirement: "Complete your first order",
		Metric:      MetricOrders,
		Threshold:   FirstOrderThreshold,
	},
	{
		ID:          CO2Milestone,
		Name:        "Eco Saver",
		Icon:        "🌍",
		Description: "You've saved 50+ kg of CO₂! Great job!",
		Requirement: "Save 50kg+ of CO₂ through purchases",
		Metric:      MetricCO2,
		Threshold:   CO2MilestoneThreshold,
	},
	{
		ID:          ElectronicsMilestone,
		Name:        "Waste Warrior",
		Icon:        "♻️",
		Description: "Champion of electronic waste reduction!",
		Requirement: "Help reduce 10+ electronic items from waste",
		Metric:      MetricItems,
		Threshold:   ElectronicsMilestoneThreshold,
	},
}

var electronicsCategories = map[string]struct{}{
	models.CategoryLaptop:        {},
	models.CategoryMobile:        {},
	models.CategoryAccessories:   {},
	models.CategoryHomeAppliance: {},
}

// All returns the badge table in priority order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

func Lookup(id ID) (Definition, error) {
	for _, d := range definitions {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownBadge, id)
}

func IsElectronicsCategory(category string) bool {
	_, ok := electronicsCategories[category]
	return ok
}

func counter(m Metric, stats models.UserStats) float64 {
	switch m {
	case MetricOrders:
		return float64(stats.OrderCount)
	case MetricCO2:
		return stats.CO2Saved
	case MetricItems:
		return float64(stats.EWasteItemsSaved)
	}
	return 0
}

// Earned reports whether the predicate of d holds for stats.
func (d Definition) Earned(stats models.UserStats) bool {
	return counter(d.Metric, stats) >= d.Threshold
}

// Flag reads the stored flag for id.
func Flag(b models.Badges, id ID) bool {
	switch id {
	case FirstOrder:
		return b.FirstOrder
	case CO2Milestone:
		return b.CO2Milestone
	case ElectronicsMilestone:
		return b.ElectronicsMilestone
	}
	return false
}

func setFlag(b *models.Badges, id ID) {
	switch id {
	case FirstOrder:
		b.FirstOrder = true
	case CO2Milestone:
		b.CO2Milestone = true
	case ElectronicsMilestone:
		b.ElectronicsMilestone = true
	}
}

// Evaluate recomputes every badge against stats and returns the updated flags
// together with the first badge, in priority order, that went from false to true.
// Flags already set stay set. Only one newly earned badge is ever reported per
// call; any other badge crossing its threshold in the same call is set silently.
func Evaluate(stats models.UserStats) (models.Badges, ID) {
	next := stats.Badges
	var newly ID

	for _, d := range definitions {
		if Flag(next, d.ID) || !d.Earned(stats) {
			continue
		}
		setFlag(&next, d.ID)
		if newly == "" {
			newly = d.ID
		}
	}

	return next, newly
}

type Progress struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

// ProgressOf reports how far stats are towards badge id, capped at the threshold.
func ProgressOf(id ID, stats models.UserStats) (Progress, error) {
	d, err := Lookup(id)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		Current: math.Min(counter(d.Metric, stats), d.Threshold),
		Max:     d.Threshold,
	}, nil
}
