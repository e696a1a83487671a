package breeding

import (
	"fmt"
	"strings"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

var (
	namePrefixes = []string{
		"Thunder", "Storm", "Silver", "Golden", "Midnight",
		"Shadow", "Blaze", "Crimson", "Star", "Wild",
	}
	nameSuffixes = []string{
		"Runner", "Dancer", "Spirit", "Arrow", "Flight",
		"Dream", "Fury", "Legend", "Comet", "Wind",
	}
	lineageWords = []string{
		"Junior", "Legacy", "Heir", "Rising", "Echo", "Prince", "Spark",
	}
	quirks = []string{
		"Nickers at the starting gate",
		"Will only eat green apples",
		"Sleeps standing on three legs",
		"Follows the groom everywhere",
		"Hates puddles",
		"Loves a crowd",
	}
)

const lineageNameChance = 0.4

// foalName either carries a parent's first name forward or builds a fresh one.
func (e *Engine) foalName(mare, stallion string) string {
	if e.rand() < lineageNameChance {
		parent := stallion
		if e.rand() < 0.5 {
			parent = mare
		}
		if fields := strings.Fields(parent); len(fields) > 0 {
			return fields[0] + " " + lineageWords[e.pick(len(lineageWords))]
		}
	}
	return e.freshName()
}

func (e *Engine) freshName() string {
	return namePrefixes[e.pick(len(namePrefixes))] + " " + nameSuffixes[e.pick(len(nameSuffixes))]
}

func personality(b stats.Bundle) string {
	var temper string
	switch {
	case b.Temperament >= 75:
		temper = "Calm and focused"
	case b.Temperament <= 35:
		temper = "Fiery and unpredictable"
	default:
		temper = "Spirited but manageable"
	}
	switch {
	case b.Intelligence >= 75:
		return temper + ", learns quickly."
	case b.Intelligence <= 35:
		return temper + ", needs patient handling."
	}
	return temper + "."
}

func (e *Engine) quirk(b stats.Bundle, mutated bool) string {
	switch {
	case mutated:
		return "Carries a rare genetic mutation"
	case b.Speed >= 85:
		return "Refuses to walk when it could gallop"
	case b.Stamina >= 85:
		return "Never seems to tire"
	}
	return quirks[e.pick(len(quirks))]
}

func backstory(mare, stallion string, foal *models.Horse, mutated bool) string {
	s := fmt.Sprintf("Born to %s and %s, a generation %d %s foal of the %s line.",
		displayName(mare, "an unnamed mare"),
		displayName(stallion, "an unnamed stallion"),
		foal.Generation, strings.ToLower(foal.Rarity.String()), foal.Bloodline)
	if mutated {
		s += " Breeders noticed something unusual from the first day."
	}
	return s
}
