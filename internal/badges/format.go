package badges

import (
	"fmt"
	"math"
	"strconv"

	"github.com/sol1corejz/greenmart/internal/models"
)

// co2PerGram is the grams of CO₂ avoided per gram of reused e-waste.
const co2PerGram = 6

// CalculateEcoImpact derives the eco impact of reusing an item of the given weight.
func CalculateEcoImpact(weightGrams float64) models.EcoImpact {
	return models.EcoImpact{
		EWasteSaved: weightGrams,
		CO2Saved:    math.Round(weightGrams * co2PerGram),
	}
}

func FormatWeight(grams float64) string {
	if grams >= 1000 {
		return fmt.Sprintf("%.1fkg", grams/1000)
	}
	return strconv.FormatFloat(grams, 'f', -1, 64) + "g"
}

func FormatCO2(grams float64) string {
	if grams >= 1000 {
		return fmt.Sprintf("%.1fkg CO₂", grams/1000)
	}
	return strconv.FormatFloat(grams, 'f', -1, 64) + "g CO₂"
}

func FormatProgress(current, max float64, metric Metric) string {
	switch metric {
	case MetricOrders:
		return fmt.Sprintf("%g/%g orders", current, max)
	case MetricCO2:
		return fmt.Sprintf("%.1f/%.1f kg CO₂", current/1000, max/1000)
	case MetricItems:
		return fmt.Sprintf("%g/%g items", current, max)
	default:
		return fmt.Sprintf("%g/%g", current, max)
	}
}
