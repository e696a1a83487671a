package training

import (
	"math"

	"github.com/padraicbc/studbook/models"
)

// AgeModifier favours horses between two and eight years old.
func AgeModifier(months int) float64 {
	switch {
	case months < 24:
		return 0.7
	case months <= 96:
		return 1.0
	case months <= 144:
		return 0.8
	default:
		return 0.6
	}
}

// FitnessModifier scales with fitness, capped at 1.2.
func FitnessModifier(fitness int) float64 {
	return math.Min(1.2, float64(fitness)/80)
}

// ExperienceModifier adds up to 10% for seasoned horses.
func ExperienceModifier(experience int) float64 {
	return math.Min(1.1, 1+(float64(experience)/1000)*0.1)
}

// SuccessRate is the percentage chance h completes p.
func SuccessRate(p Program, h *models.Horse) float64 {
	return p.SuccessRate * AgeModifier(h.AgeMonths) * FitnessModifier(h.Fitness) * ExperienceModifier(h.Experience)
}

// EffectiveBoost applies diminishing returns to base as the current trait
// value climbs.
func EffectiveBoost(base, current int) int {
	switch {
	case current >= 90:
		return max(1, int(float64(base)*0.3))
	case current >= 80:
		return int(float64(base) * 0.6)
	case current >= 70:
		return int(float64(base) * 0.8)
	default:
		return base
	}
}
