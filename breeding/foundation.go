package breeding

import (
	"fmt"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

const (
	foundationAgeMonths = 36
	foundationMinStat   = 40
	foundationMaxStat   = 80
)

var (
	coatColors = []string{"Bay", "Chestnut", "Black", "Grey", "Palomino", "Dun", "Roan", "Buckskin"}
	markings   = []string{"Star", "Blaze", "Snip", "Stripe", "Sock", "Stocking"}
)

// Foundation creates a parentless generation-0 horse that is old enough to
// breed. An empty name is replaced with a generated one.
func (e *Engine) Foundation(name string, owner int64, bloodline stats.Bloodline) (*models.Horse, error) {
	if !bloodline.Valid() {
		return nil, fmt.Errorf("%w: unknown bloodline %q", ErrValidation, bloodline)
	}

	var b stats.Bundle
	for _, t := range stats.Traits {
		b.Set(t, foundationMinStat+e.pick(foundationMaxStat-foundationMinStat+1))
	}

	h := &models.Horse{
		Name:       name,
		OwnerID:    owner,
		Stats:      b,
		Bloodline:  bloodline,
		Rarity:     DetermineRarity(b.Mean() + float64(2*stats.Common.Score())*5),
		Generation: 0,
		AgeMonths:  foundationAgeMonths,
		Fitness:    minFoalFitness + e.pick(maxFoalFitness-minFoalFitness+1),
		CanBreed:   true,
		CoatColor:  coatColors[e.pick(len(coatColors))],
	}
	for n := e.pick(maxMarkings + 1); n > 0; n-- {
		h.Markings = mergeMarkings(h.Markings, []string{markings[e.pick(len(markings))]})
	}
	if h.Name == "" {
		h.Name = e.freshName()
	}
	h.Personality = personality(h.Stats)
	h.Quirk = e.quirk(h.Stats, false)
	h.Backstory = fmt.Sprintf("A foundation horse of the %s line.", bloodline)
	return h, nil
}
