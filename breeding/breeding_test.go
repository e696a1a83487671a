package breeding

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

func constant(v float64) func() float64 {
	return func() float64 { return v }
}

func seeded(seed uint64) func() float64 {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Float64
}

func uniform(v int) stats.Bundle {
	return stats.Bundle{Speed: v, Stamina: v, Agility: v, Temperament: v, Intelligence: v}
}

func testHorse(id int64, name string, b stats.Bundle, line stats.Bloodline) *models.Horse {
	return &models.Horse{
		HorseID:   id,
		Name:      name,
		OwnerID:   7,
		Stats:     b,
		Bloodline: line,
		Rarity:    stats.Common,
		CoatColor: "Bay",
		AgeMonths: 48,
		Fitness:   80,
		CanBreed:  true,
	}
}

func randomHorse(id int64, rnd func() float64) *models.Horse {
	var b stats.Bundle
	for _, t := range stats.Traits {
		b.Set(t, 1+int(rnd()*100))
	}
	h := testHorse(id, "Random Horse", b, stats.Bloodlines[int(rnd()*float64(len(stats.Bloodlines)))])
	h.Rarity = stats.Rarities[int(rnd()*float64(len(stats.Rarities)))]
	h.Generation = int(rnd() * 10)
	return h
}

func TestDetermineRarityBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  stats.Rarity
	}{
		{69, stats.Common},
		{70, stats.Uncommon},
		{84, stats.Uncommon},
		{85, stats.Rare},
		{94, stats.Rare},
		{95, stats.Epic},
		{98, stats.Epic},
		{99, stats.Legendary},
	}
	for _, tt := range tests {
		if got := DetermineRarity(tt.score); got != tt.want {
			t.Errorf("DetermineRarity(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestDetermineRarityNonDecreasing(t *testing.T) {
	prev := DetermineRarity(0)
	for s := 0.0; s <= 120; s += 0.5 {
		got := DetermineRarity(s)
		if got < prev {
			t.Fatalf("rarity dropped from %s to %s at score %v", prev, got, s)
		}
		prev = got
	}
}

func TestBloodlineCompatibilitySymmetric(t *testing.T) {
	for _, a := range stats.Bloodlines {
		for _, b := range stats.Bloodlines {
			if BloodlineCompatibility(a, b) != BloodlineCompatibility(b, a) {
				t.Errorf("%s/%s is not symmetric", a, b)
			}
		}
		if s := BloodlineCompatibility(a, a); s < 95 || s > 99 {
			t.Errorf("same-line %s scored %d", a, s)
		}
	}
	if got := BloodlineCompatibility("Z", stats.BloodlineA); got != 50 {
		t.Fatalf("unknown pairing scored %d, want 50", got)
	}
}

func TestGeneticDiversity(t *testing.T) {
	tests := []struct {
		name string
		a, b stats.Bundle
		want float64
	}{
		{"identical", uniform(50), uniform(50), 40},
		{"just under ten", uniform(50), uniform(59), 40},
		{"ten apart", uniform(50), uniform(60), 70},
		{"twenty apart", uniform(50), uniform(70), 85},
		{"forty apart capped", uniform(30), uniform(70), 100},
		{"too divergent", uniform(20), uniform(61), 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GeneticDiversity(tt.a, tt.b); got != tt.want {
				t.Fatalf("GeneticDiversity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRarityChances(t *testing.T) {
	base := RarityChances(stats.Common, stats.Common)
	want := map[stats.Rarity]float64{
		stats.Common: 40, stats.Uncommon: 30, stats.Rare: 20, stats.Epic: 8, stats.Legendary: 2,
	}
	if !reflect.DeepEqual(base, want) {
		t.Fatalf("base chances = %v, want %v", base, want)
	}

	top := RarityChances(stats.Legendary, stats.Legendary)
	if top[stats.Common] != 5 {
		t.Errorf("common floor: got %v", top[stats.Common])
	}
	if top[stats.Uncommon] != 42 || top[stats.Rare] != 36 || top[stats.Epic] != 16 {
		t.Errorf("unexpected mid tiers: %v", top)
	}
	if top[stats.Legendary] != 6 {
		t.Errorf("legendary: got %v, want 6", top[stats.Legendary])
	}
}

func TestRecommendationBuckets(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "Excellent match! High chance of superior offspring."},
		{80, "Excellent match! High chance of superior offspring."},
		{79, "Good match. Offspring should show solid potential."},
		{60, "Good match. Offspring should show solid potential."},
		{40, "Moderate match. Results may vary."},
		{39, "Poor match. Consider a different pairing."},
	}
	for _, tt := range tests {
		if got := Recommendation(tt.score); got != tt.want {
			t.Errorf("Recommendation(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestAnalyzeCompatibilityIdenticalParents(t *testing.T) {
	e := New(seeded(1))
	mare := testHorse(1, "Dam", uniform(50), stats.BloodlineA)
	stallion := testHorse(2, "Sire", uniform(50), stats.BloodlineA)

	for i := 0; i < 20; i++ {
		a, err := e.AnalyzeCompatibility(mare, stallion)
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if a.DiversityScore != 40 {
			t.Fatalf("diversity = %v, want 40", a.DiversityScore)
		}
		// round(95*0.4 + 40*0.3 + 50*0.3) = 65
		if a.CompatibilityScore != 65 {
			t.Fatalf("compatibility = %d, want 65", a.CompatibilityScore)
		}
		if a.ProjectedStats != uniform(50) {
			t.Fatalf("projected = %+v, want all 50", a.ProjectedStats)
		}
		if !slices.Equal(a.PotentialTraits, []string{"Pure Bloodline"}) {
			t.Fatalf("traits = %v", a.PotentialTraits)
		}
	}
}

func TestAnalyzeCompatibilityTraitTags(t *testing.T) {
	e := New(constant(0.5))
	mare := testHorse(1, "Dam", stats.Bundle{Speed: 90, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 86}, stats.BloodlineA)
	stallion := testHorse(2, "Sire", stats.Bundle{Speed: 60, Stamina: 85, Agility: 50, Temperament: 50, Intelligence: 50}, stats.BloodlineB)

	a, err := e.AnalyzeCompatibility(mare, stallion)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	want := []string{"Lightning Speed", "Racing Genius", "Hybrid Vigor"}
	if !slices.Equal(a.PotentialTraits, want) {
		t.Fatalf("traits = %v, want %v", a.PotentialTraits, want)
	}
	if a.BloodlineScore != 85 {
		t.Fatalf("bloodline = %d, want 85", a.BloodlineScore)
	}
}

func TestAnalyzeCompatibilityBounds(t *testing.T) {
	rnd := seeded(42)
	e := New(rnd)
	for i := 0; i < 500; i++ {
		a, err := e.AnalyzeCompatibility(randomHorse(1, rnd), randomHorse(2, rnd))
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if a.CompatibilityScore < 0 || a.CompatibilityScore > 100 {
			t.Fatalf("compatibility %d out of bounds", a.CompatibilityScore)
		}
		if err := a.ProjectedStats.Validate(); err != nil {
			t.Fatalf("projected stats: %v", err)
		}
	}
}

func TestBreedDeterministicMidpoint(t *testing.T) {
	e := New(constant(0.5))
	mare := testHorse(1, "Dam Star", stats.Bundle{Speed: 80, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 50}, stats.BloodlineA)
	mare.Generation = 2
	mare.Markings = []string{"Star", "Blaze"}
	stallion := testHorse(2, "Sire", stats.Bundle{Speed: 60, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 50}, stats.BloodlineA)
	stallion.CoatColor = "Grey"
	stallion.Markings = []string{"Blaze", "Sock"}
	stallion.OwnerID = 99

	res, err := e.Breed(mare, stallion)
	if err != nil {
		t.Fatalf("breed: %v", err)
	}
	if !res.Success {
		t.Fatal("breeding should always succeed")
	}
	foal := res.Offspring
	want := stats.Bundle{Speed: 68, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 50}
	if foal.Stats != want {
		t.Fatalf("stats = %+v, want %+v", foal.Stats, want)
	}
	if len(res.Mutations) != 0 {
		t.Fatalf("unexpected mutations %v", res.Mutations)
	}
	if foal.Generation != 3 {
		t.Fatalf("generation = %d, want 3", foal.Generation)
	}
	if foal.OwnerID != 7 {
		t.Fatalf("owner = %d, want mare's owner 7", foal.OwnerID)
	}
	if foal.CoatColor != "Bay" {
		t.Fatalf("coat = %q, want mare's Bay", foal.CoatColor)
	}
	if !slices.Equal(foal.Markings, []string{"Star", "Blaze"}) {
		t.Fatalf("markings = %v", foal.Markings)
	}
	if foal.Bloodline != stats.BloodlineA {
		t.Fatalf("bloodline = %s", foal.Bloodline)
	}
	if foal.AgeMonths != 12 || foal.Experience != 0 || foal.RaceCount != 0 || foal.CanBreed {
		t.Fatalf("unexpected foal defaults: %+v", foal)
	}
	if foal.Fitness != 80 {
		t.Fatalf("fitness = %d, want 80", foal.Fitness)
	}
	if foal.Rarity != stats.Common {
		t.Fatalf("rarity = %s", foal.Rarity)
	}
	if foal.Name != "Shadow Dream" {
		t.Fatalf("name = %q", foal.Name)
	}
	if res.Description != "Takes after the sire, Sire." {
		t.Fatalf("description = %q", res.Description)
	}
	if foal.MareID == nil || *foal.MareID != 1 || foal.StallionID == nil || *foal.StallionID != 2 {
		t.Fatal("parent ids not recorded")
	}
}

func TestBreedMutatesEveryTraitWhenRollsAreLow(t *testing.T) {
	e := New(constant(0))
	mare := testHorse(1, "Dam Star", stats.Bundle{Speed: 80, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 5}, stats.BloodlineB)
	stallion := testHorse(2, "Sire", stats.Bundle{Speed: 60, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 5}, stats.BloodlineB)

	res, err := e.Breed(mare, stallion)
	if err != nil {
		t.Fatalf("breed: %v", err)
	}
	if len(res.Mutations) != len(stats.Traits) {
		t.Fatalf("mutations = %v", res.Mutations)
	}
	// 68 - 3 jitter, then -10
	if res.Offspring.Stats.Speed != 55 {
		t.Fatalf("speed = %d, want 55", res.Offspring.Stats.Speed)
	}
	// 5*0.9+5 = 9.5 rounds to 10, then -10 clamps to 1
	if res.Offspring.Stats.Intelligence != 1 {
		t.Fatalf("intelligence = %d, want 1", res.Offspring.Stats.Intelligence)
	}
	if res.Offspring.Name != "Dam Junior" {
		t.Fatalf("name = %q", res.Offspring.Name)
	}
	if res.Offspring.Quirk != "Carries a rare genetic mutation" {
		t.Fatalf("quirk = %q", res.Offspring.Quirk)
	}
}

func TestBreedInvariants(t *testing.T) {
	rnd := seeded(7)
	e := New(rnd)
	for i := 0; i < 500; i++ {
		mare := randomHorse(1, rnd)
		stallion := randomHorse(2, rnd)
		res, err := e.Breed(mare, stallion)
		if err != nil {
			t.Fatalf("breed: %v", err)
		}
		foal := res.Offspring
		if err := foal.Stats.Validate(); err != nil {
			t.Fatalf("foal stats: %v", err)
		}
		if want := max(mare.Generation, stallion.Generation) + 1; foal.Generation != want {
			t.Fatalf("generation = %d, want %d", foal.Generation, want)
		}
		if foal.Fitness < 70 || foal.Fitness > 90 {
			t.Fatalf("fitness %d out of range", foal.Fitness)
		}
		if len(foal.Markings) > 2 {
			t.Fatalf("markings %v", foal.Markings)
		}
		if !foal.Bloodline.Valid() {
			t.Fatalf("bloodline %q", foal.Bloodline)
		}
		if foal.Name == "" {
			t.Fatal("empty name")
		}
	}
}

func TestBreedExtremeParentsStayInRange(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		e := New(seeded(seed))
		res, err := e.Breed(
			testHorse(1, "Low", uniform(1), stats.BloodlineC),
			testHorse(2, "High", uniform(100), stats.BloodlineD),
		)
		if err != nil {
			t.Fatalf("breed: %v", err)
		}
		if err := res.Offspring.Stats.Validate(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
	}
}

func TestBreedLeavesParentsUntouched(t *testing.T) {
	e := New(seeded(3))
	mare := testHorse(1, "Dam", uniform(70), stats.BloodlineA)
	mare.Markings = []string{"Star"}
	stallion := testHorse(2, "Sire", uniform(40), stats.BloodlineD)
	before := *mare
	before.Markings = slices.Clone(mare.Markings)
	beforeStallion := *stallion

	if _, err := e.Breed(mare, stallion); err != nil {
		t.Fatalf("breed: %v", err)
	}
	if !reflect.DeepEqual(*mare, before) {
		t.Fatal("mare was modified")
	}
	if !reflect.DeepEqual(*stallion, beforeStallion) {
		t.Fatal("stallion was modified")
	}
}

func TestBreedHybridBloodline(t *testing.T) {
	e := New(constant(0.5))
	tests := []struct {
		a, b, want stats.Bloodline
	}{
		{stats.BloodlineA, stats.BloodlineB, stats.BloodlineB},
		{stats.BloodlineB, stats.BloodlineA, stats.BloodlineB},
		{stats.BloodlineC, stats.BloodlineD, stats.BloodlineC},
		{stats.BloodlineD, stats.BloodlineLegendary, stats.BloodlineLegendary},
	}
	for _, tt := range tests {
		if got := e.inheritBloodline(tt.a, tt.b); got != tt.want {
			t.Errorf("%s x %s = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBreedRejectsInvalidInput(t *testing.T) {
	e := New(nil)
	ok := testHorse(1, "Dam", uniform(50), stats.BloodlineA)
	bad := testHorse(2, "Broken", stats.Bundle{Speed: 0, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 50}, stats.BloodlineA)

	tests := []struct {
		name           string
		mare, stallion *models.Horse
	}{
		{"nil stallion", ok, nil},
		{"self pairing", ok, ok},
		{"stat out of range", ok, bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Breed(tt.mare, tt.stallion); !errors.Is(err, ErrValidation) {
				t.Fatalf("Breed error = %v, want ErrValidation", err)
			}
			if _, err := e.AnalyzeCompatibility(tt.mare, tt.stallion); !errors.Is(err, ErrValidation) {
				t.Fatalf("AnalyzeCompatibility error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestFoundation(t *testing.T) {
	e := New(seeded(11))
	h, err := e.Foundation("", 3, stats.BloodlineC)
	if err != nil {
		t.Fatalf("foundation: %v", err)
	}
	if h.Generation != 0 || h.AgeMonths != 36 || !h.CanBreed || h.OwnerID != 3 {
		t.Fatalf("unexpected foundation horse %+v", h)
	}
	for _, tr := range stats.Traits {
		if v := h.Stats.Get(tr); v < 40 || v > 80 {
			t.Fatalf("%s = %d out of foundation range", tr, v)
		}
	}
	if h.Name == "" {
		t.Fatal("expected generated name")
	}
	if _, err := e.Foundation("x", 3, "Z"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func scripted(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func TestMutateRecordsOnlyRealChanges(t *testing.T) {
	// Per trait: a roll under the chance, then the amount roll.
	e := New(scripted(
		0.1, 0.5,  // speed: +0
		0.1, 0.0,  // stamina: -10
		0.1, 0.99, // agility: +10, clamped at 100
		0.9,       // temperament: no roll
		0.9,       // intelligence: no roll
	))
	b := stats.Bundle{Speed: 50, Stamina: 50, Agility: 100, Temperament: 50, Intelligence: 50}

	notes := e.mutate(&b)
	want := []string{"Stamina mutation: 50 -> 40"}
	if !reflect.DeepEqual(notes, want) {
		t.Fatalf("notes = %v, want %v", notes, want)
	}
	if b.Speed != 50 || b.Agility != 100 || b.Stamina != 40 {
		t.Fatalf("bundle = %+v", b)
	}
}
