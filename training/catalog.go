package training

import (
	"fmt"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

// Program is a fixed training activity from the catalog.
type Program struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Trait           stats.Trait `json:"trait"`
	Level           int         `json:"level"`
	DurationMinutes int         `json:"durationMinutes"`
	Cost            int         `json:"cost"`

	RequiredFacilityLevel int `json:"requiredFacilityLevel"`
	MinAgeMonths          int `json:"minAgeMonths"`
	MaxAgeMonths          int `json:"maxAgeMonths"`
	MinFitness            int `json:"minFitness"`

	StatBoost      int     `json:"statBoost"`
	FitnessDelta   int     `json:"fitnessDelta"`
	SuccessRate    float64 `json:"successRate"`
	ExperienceGain int     `json:"experienceGain"`
}

type levelSpec struct {
	cost, minutes, minFitness, fitnessDelta int
	success                                 float64
}

var levelNames = [...]string{"", "Basic", "Advanced", "Elite"}

// Age limits and experience per level; index 0 unused.
var (
	minAge     = [...]int{0, 12, 18, 24}
	maxAge     = [...]int{0, 240, 216, 180}
	experience = [...]int{0, 10, 25, 50}
	boost      = [...]int{0, 2, 4, 6}
)

var programTable = []struct {
	trait  stats.Trait
	levels [3]levelSpec
}{
	{stats.Speed, [3]levelSpec{
		{500, 30, 50, -5, 85}, {1000, 45, 60, -8, 75}, {2000, 60, 75, -12, 65},
	}},
	{stats.Stamina, [3]levelSpec{
		{400, 45, 50, -8, 90}, {800, 60, 60, -12, 80}, {1500, 90, 70, -15, 70},
	}},
	{stats.Agility, [3]levelSpec{
		{600, 30, 55, -5, 85}, {1200, 45, 65, -8, 75}, {2200, 60, 75, -12, 65},
	}},
	{stats.Intelligence, [3]levelSpec{
		{300, 20, 40, 0, 95}, {700, 40, 50, 0, 85}, {1500, 60, 60, 0, 75},
	}},
	{stats.Temperament, [3]levelSpec{
		{400, 25, 40, 2, 90}, {800, 40, 50, 3, 80}, {1200, 50, 60, 5, 70},
	}},
}

// catalog is built once and only ever read.
var catalog = buildCatalog()

func buildCatalog() []Program {
	out := make([]Program, 0, len(programTable)*3)
	for _, row := range programTable {
		for i, spec := range row.levels {
			level := i + 1
			out = append(out, Program{
				ID:                    fmt.Sprintf("%s-%d", row.trait, level),
				Name:                  fmt.Sprintf("%s %s Training", levelNames[level], row.trait.Label()),
				Trait:                 row.trait,
				Level:                 level,
				DurationMinutes:       spec.minutes,
				Cost:                  spec.cost,
				RequiredFacilityLevel: level,
				MinAgeMonths:          minAge[level],
				MaxAgeMonths:          maxAge[level],
				MinFitness:            spec.minFitness,
				StatBoost:             boost[level],
				FitnessDelta:          spec.fitnessDelta,
				SuccessRate:           spec.success,
				ExperienceGain:        experience[level],
			})
		}
	}
	return out
}

// Catalog returns a copy of every program.
func Catalog() []Program {
	return append([]Program(nil), catalog...)
}

// Lookup finds a program by ID.
func Lookup(id string) (Program, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Program{}, false
}

// Eligible reports why h cannot take p at the given facility level, or nil.
func (p Program) Eligible(h *models.Horse, facilityLevel int) error {
	switch {
	case facilityLevel < p.RequiredFacilityLevel:
		return fmt.Errorf("%w: %s needs facility level %d, have %d", ErrIneligible, p.ID, p.RequiredFacilityLevel, facilityLevel)
	case h.AgeMonths < p.MinAgeMonths || h.AgeMonths > p.MaxAgeMonths:
		return fmt.Errorf("%w: %s needs age %d-%d months, horse is %d", ErrIneligible, p.ID, p.MinAgeMonths, p.MaxAgeMonths, h.AgeMonths)
	case h.Fitness < p.MinFitness:
		return fmt.Errorf("%w: %s needs fitness %d, horse has %d", ErrIneligible, p.ID, p.MinFitness, h.Fitness)
	}
	return nil
}
