package breeding

import (
	"fmt"
	"math"
	"slices"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

const (
	mareCoatChance = 0.6
	maxMarkings    = 2
)

var hybridBloodlines = map[pair]stats.Bloodline{
	{stats.BloodlineA, stats.BloodlineB}: stats.BloodlineB,
	{stats.BloodlineA, stats.BloodlineC}: stats.BloodlineA,
	{stats.BloodlineA, stats.BloodlineD}: stats.BloodlineD,
	{stats.BloodlineB, stats.BloodlineC}: stats.BloodlineC,
	{stats.BloodlineB, stats.BloodlineD}: stats.BloodlineB,
	{stats.BloodlineC, stats.BloodlineD}: stats.BloodlineC,
}

// Breed produces one foal from mare and stallion. The parents are not
// modified; the foal belongs to the mare's owner and has no ID yet.
func (e *Engine) Breed(mare, stallion *models.Horse) (*Result, error) {
	if err := validatePair(mare, stallion); err != nil {
		return nil, err
	}

	foalStats := e.inheritBundle(mare.Stats, stallion.Stats)
	mutations := e.mutate(&foalStats)

	score := foalStats.Mean() + float64(mare.Rarity.Score()+stallion.Rarity.Score())*5

	foal := &models.Horse{
		OwnerID:    mare.OwnerID,
		Stats:      foalStats,
		Rarity:     DetermineRarity(score),
		Generation: max(mare.Generation, stallion.Generation) + 1,
		AgeMonths:  offspringAgeMonths,
		CoatColor:  e.inheritCoat(mare.CoatColor, stallion.CoatColor),
		Markings:   mergeMarkings(mare.Markings, stallion.Markings),
		Bloodline:  e.inheritBloodline(mare.Bloodline, stallion.Bloodline),
		Fitness:    minFoalFitness + e.pick(maxFoalFitness-minFoalFitness+1),
		CanBreed:   false,
	}
	if id := mare.HorseID; id != 0 {
		foal.MareID = &id
	}
	if id := stallion.HorseID; id != 0 {
		foal.StallionID = &id
	}

	foal.Name = e.foalName(mare.Name, stallion.Name)
	foal.Personality = personality(foal.Stats)
	foal.Quirk = e.quirk(foal.Stats, len(mutations) > 0)
	foal.Backstory = backstory(mare.Name, stallion.Name, foal, len(mutations) > 0)

	return &Result{
		Success:     true,
		Offspring:   foal,
		Mutations:   mutations,
		Description: dominance(foal, mare, stallion),
	}, nil
}

// mutate nudges each trait by up to ±10 with a fixed chance and
// describes every trait that actually moved.
func (e *Engine) mutate(b *stats.Bundle) []string {
	var notes []string
	for _, t := range stats.Traits {
		if e.rand() >= mutationChance {
			continue
		}
		before := b.Get(t)
		b.Add(t, int(math.Round((e.rand()-0.5)*mutationRange)))
		if after := b.Get(t); after != before {
			notes = append(notes, fmt.Sprintf("%s mutation: %d -> %d", t.Label(), before, after))
		}
	}
	return notes
}

func (e *Engine) inheritCoat(mare, stallion string) string {
	if e.rand() < mareCoatChance {
		return mare
	}
	return stallion
}

func mergeMarkings(mare, stallion []string) []string {
	out := make([]string, 0, maxMarkings)
	for _, m := range slices.Concat(mare, stallion) {
		if len(out) == maxMarkings {
			break
		}
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) inheritBloodline(mare, stallion stats.Bloodline) stats.Bloodline {
	if mare == stallion {
		return mare
	}
	if mare == stats.BloodlineLegendary || stallion == stats.BloodlineLegendary {
		return stats.BloodlineLegendary
	}
	if b, ok := hybridBloodlines[pair{mare, stallion}]; ok {
		return b
	}
	if b, ok := hybridBloodlines[pair{stallion, mare}]; ok {
		return b
	}
	if e.rand() < 0.5 {
		return mare
	}
	return stallion
}

// dominance names the parent whose speed the foal is closer to. Ties go to the mare.
func dominance(foal, mare, stallion *models.Horse) string {
	dMare := abs(foal.Stats.Speed - mare.Stats.Speed)
	dStallion := abs(foal.Stats.Speed - stallion.Stats.Speed)
	if dMare <= dStallion {
		return fmt.Sprintf("Takes after the dam, %s.", displayName(mare.Name, "the mare"))
	}
	return fmt.Sprintf("Takes after the sire, %s.", displayName(stallion.Name, "the stallion"))
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
