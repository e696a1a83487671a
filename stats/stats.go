// Package stats holds the five-trait profile shared by breeding and training,
// plus the categorical bloodline and rarity tiers a horse carries.
package stats

import "fmt"

const (
	MinStat = 1
	MaxStat = 100
)

// Trait names one of the five stats.
type Trait string

const (
	Speed        Trait = "speed"
	Stamina      Trait = "stamina"
	Agility      Trait = "agility"
	Temperament  Trait = "temperament"
	Intelligence Trait = "intelligence"
)

// Traits lists every trait in a fixed order. Anything that consumes
// randomness per trait iterates in this order.
var Traits = []Trait{Speed, Stamina, Agility, Temperament, Intelligence}

// Valid reports whether t is one of the five known traits.
func (t Trait) Valid() bool {
	switch t {
	case Speed, Stamina, Agility, Temperament, Intelligence:
		return true
	}
	return false
}

// Label returns the capitalised trait name.
func (t Trait) Label() string {
	switch t {
	case Speed:
		return "Speed"
	case Stamina:
		return "Stamina"
	case Agility:
		return "Agility"
	case Temperament:
		return "Temperament"
	case Intelligence:
		return "Intelligence"
	}
	return string(t)
}

// Bundle is a horse's stat profile. Every value stays within [MinStat, MaxStat].
type Bundle struct {
	Speed        int `bun:"speed,notnull" json:"speed"`
	Stamina      int `bun:"stamina,notnull" json:"stamina"`
	Agility      int `bun:"agility,notnull" json:"agility"`
	Temperament  int `bun:"temperament,notnull" json:"temperament"`
	Intelligence int `bun:"intelligence,notnull" json:"intelligence"`
}

// Clamp limits v to [MinStat, MaxStat].
func Clamp(v int) int {
	return ClampRange(v, MinStat, MaxStat)
}

// ClampRange limits v to [lo, hi].
func ClampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Get returns the value for t. Unknown traits return 0.
func (b Bundle) Get(t Trait) int {
	switch t {
	case Speed:
		return b.Speed
	case Stamina:
		return b.Stamina
	case Agility:
		return b.Agility
	case Temperament:
		return b.Temperament
	case Intelligence:
		return b.Intelligence
	}
	return 0
}

// Set writes v, clamped, to t.
func (b *Bundle) Set(t Trait, v int) {
	v = Clamp(v)
	switch t {
	case Speed:
		b.Speed = v
	case Stamina:
		b.Stamina = v
	case Agility:
		b.Agility = v
	case Temperament:
		b.Temperament = v
	case Intelligence:
		b.Intelligence = v
	}
}

// Add adds delta to t and clamps the result.
func (b *Bundle) Add(t Trait, delta int) {
	b.Set(t, b.Get(t)+delta)
}

// Mean returns the average of the five traits.
func (b Bundle) Mean() float64 {
	return float64(b.Speed+b.Stamina+b.Agility+b.Temperament+b.Intelligence) / float64(len(Traits))
}

// Validate checks every trait is within range.
func (b Bundle) Validate() error {
	for _, t := range Traits {
		if v := b.Get(t); v < MinStat || v > MaxStat {
			return fmt.Errorf("%s %d out of range [%d,%d]", t, v, MinStat, MaxStat)
		}
	}
	return nil
}
