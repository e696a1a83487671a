package breeding

import (
	"math"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

const unknownBloodlineScore = 50

type pair struct{ a, b stats.Bloodline }

// bloodlineScores is keyed in one direction only; lookups try both.
var bloodlineScores = map[pair]int{
	{stats.BloodlineA, stats.BloodlineA}:                 95,
	{stats.BloodlineB, stats.BloodlineB}:                 97,
	{stats.BloodlineC, stats.BloodlineC}:                 96,
	{stats.BloodlineD, stats.BloodlineD}:                 98,
	{stats.BloodlineLegendary, stats.BloodlineLegendary}: 99,

	{stats.BloodlineA, stats.BloodlineB}:         85,
	{stats.BloodlineA, stats.BloodlineC}:         75,
	{stats.BloodlineA, stats.BloodlineD}:         70,
	{stats.BloodlineA, stats.BloodlineLegendary}: 90,
	{stats.BloodlineB, stats.BloodlineC}:         80,
	{stats.BloodlineB, stats.BloodlineD}:         72,
	{stats.BloodlineB, stats.BloodlineLegendary}: 88,
	{stats.BloodlineC, stats.BloodlineD}:         78,
	{stats.BloodlineC, stats.BloodlineLegendary}: 82,
	{stats.BloodlineD, stats.BloodlineLegendary}: 60,
}

// BloodlineCompatibility returns the 0-100 score for a bloodline pairing.
func BloodlineCompatibility(a, b stats.Bloodline) int {
	if s, ok := bloodlineScores[pair{a, b}]; ok {
		return s
	}
	if s, ok := bloodlineScores[pair{b, a}]; ok {
		return s
	}
	return unknownBloodlineScore
}

// GeneticDiversity scores how far apart two stat profiles are. Near-identical
// and wildly different parents are both penalised.
func GeneticDiversity(a, b stats.Bundle) float64 {
	var total float64
	for _, t := range stats.Traits {
		total += math.Abs(float64(a.Get(t) - b.Get(t)))
	}
	avg := total / float64(len(stats.Traits))

	switch {
	case avg < 10:
		return 40
	case avg > 40:
		return 60
	}
	return math.Min(100, 70+(avg-10)*1.5)
}

// Analysis is the advisory report shown before a breeding is committed.
type Analysis struct {
	CompatibilityScore int                      `json:"compatibilityScore"`
	BloodlineScore     int                      `json:"bloodlineScore"`
	DiversityScore     float64                  `json:"diversityScore"`
	AverageStatsScore  float64                  `json:"averageStatsScore"`
	ProjectedStats     stats.Bundle             `json:"projectedStats"`
	RarityChances      map[stats.Rarity]float64 `json:"rarityChances"`
	Recommendation     string                   `json:"recommendation"`
	PotentialTraits    []string                 `json:"potentialTraits"`
}

// AnalyzeCompatibility scores a pairing. It has no side effects.
func (e *Engine) AnalyzeCompatibility(mare, stallion *models.Horse) (*Analysis, error) {
	if err := validatePair(mare, stallion); err != nil {
		return nil, err
	}

	bloodline := BloodlineCompatibility(mare.Bloodline, stallion.Bloodline)
	diversity := GeneticDiversity(mare.Stats, stallion.Stats)
	avgStats := (mare.Stats.Mean() + stallion.Stats.Mean()) / 2

	overall := stats.ClampRange(int(math.Round(float64(bloodline)*0.4+diversity*0.3+avgStats*0.3)), 0, 100)

	return &Analysis{
		CompatibilityScore: overall,
		BloodlineScore:     bloodline,
		DiversityScore:     diversity,
		AverageStatsScore:  avgStats,
		ProjectedStats:     e.inheritBundle(mare.Stats, stallion.Stats),
		RarityChances:      RarityChances(mare.Rarity, stallion.Rarity),
		Recommendation:     Recommendation(overall),
		PotentialTraits:    potentialTraits(mare, stallion),
	}, nil
}

// RarityChances shifts the base tier distribution (in percent) toward the
// higher tiers as the parents' rarity rises.
func RarityChances(a, b stats.Rarity) map[stats.Rarity]float64 {
	avg := float64(a.Score()+b.Score()) / 2
	mod := (avg - 1) * 10

	return map[stats.Rarity]float64{
		stats.Common:    math.Max(5, 40-mod),
		stats.Uncommon:  30 + mod*0.3,
		stats.Rare:      20 + mod*0.4,
		stats.Epic:      8 + mod*0.2,
		stats.Legendary: math.Min(15, 2+mod*0.1),
	}
}

// Recommendation buckets an overall compatibility score into advice.
func Recommendation(score int) string {
	switch {
	case score >= 80:
		return "Excellent match! High chance of superior offspring."
	case score >= 60:
		return "Good match. Offspring should show solid potential."
	case score >= 40:
		return "Moderate match. Results may vary."
	default:
		return "Poor match. Consider a different pairing."
	}
}

var traitTags = map[stats.Trait]string{
	stats.Speed:        "Lightning Speed",
	stats.Stamina:      "Iron Stamina",
	stats.Agility:      "Nimble Footwork",
	stats.Temperament:  "Steady Temperament",
	stats.Intelligence: "Racing Genius",
}

const standoutTrait = 85

func potentialTraits(mare, stallion *models.Horse) []string {
	var tags []string
	for _, t := range stats.Traits {
		if mare.Stats.Get(t) > standoutTrait || stallion.Stats.Get(t) > standoutTrait {
			tags = append(tags, traitTags[t])
		}
	}
	if mare.Bloodline == stallion.Bloodline {
		tags = append(tags, "Pure Bloodline")
	} else {
		tags = append(tags, "Hybrid Vigor")
	}
	return tags
}
