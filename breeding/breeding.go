// Package breeding scores horse pairings and produces offspring.
//
// The engine never mutates the horses passed to it and never persists
// anything: callers store the returned offspring and apply any cooldowns.
package breeding

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

// ErrValidation indicates a missing or malformed horse.
var ErrValidation = errors.New("invalid breeding input")

const (
	// regression pulls inherited traits toward the population average.
	regression        = 0.1
	populationAverage = 50.0
	varianceFactor    = 0.3

	mutationChance = 0.15
	mutationRange  = 20.0

	offspringAgeMonths = 12
	minFoalFitness     = 70
	maxFoalFitness     = 90
)

// Engine runs breeding calculations with an injectable random source.
type Engine struct {
	rand func() float64
}

// New returns an Engine drawing from rnd, which must return values in [0,1).
// A nil rnd uses math/rand/v2.
func New(rnd func() float64) *Engine {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Engine{rand: rnd}
}

// Result is the outcome of a breeding.
type Result struct {
	Success     bool          `json:"success"`
	Offspring   *models.Horse `json:"offspring"`
	Mutations   []string      `json:"mutations"`
	Description string        `json:"description"`
}

func validatePair(mare, stallion *models.Horse) error {
	if mare == nil || stallion == nil {
		return fmt.Errorf("%w: both parents are required", ErrValidation)
	}
	if mare.HorseID != 0 && mare.HorseID == stallion.HorseID {
		return fmt.Errorf("%w: horse %d cannot be paired with itself", ErrValidation, mare.HorseID)
	}
	if err := mare.Stats.Validate(); err != nil {
		return fmt.Errorf("%w: mare: %v", ErrValidation, err)
	}
	if err := stallion.Stats.Validate(); err != nil {
		return fmt.Errorf("%w: stallion: %v", ErrValidation, err)
	}
	return nil
}

// inherit blends two parent values, regressing toward the population
// average and adding jitter bounded by how far apart the parents are.
func (e *Engine) inherit(mare, stallion int) int {
	mean := float64(mare+stallion) / 2
	variance := math.Abs(float64(mare-stallion)) * varianceFactor
	v := mean*(1-regression) + populationAverage*regression + (e.rand()-0.5)*variance
	return stats.Clamp(int(math.Round(v)))
}

func (e *Engine) inheritBundle(mare, stallion stats.Bundle) stats.Bundle {
	var out stats.Bundle
	for _, t := range stats.Traits {
		out.Set(t, e.inherit(mare.Get(t), stallion.Get(t)))
	}
	return out
}

// pick returns an index in [0,n).
func (e *Engine) pick(n int) int {
	i := int(e.rand() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// DetermineRarity maps a rarity score onto a tier.
func DetermineRarity(score float64) stats.Rarity {
	switch {
	case score >= 99:
		return stats.Legendary
	case score >= 95:
		return stats.Epic
	case score >= 85:
		return stats.Rare
	case score >= 70:
		return stats.Uncommon
	default:
		return stats.Common
	}
}
