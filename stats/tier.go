package stats

import (
	"database/sql/driver"
	"fmt"
)

// Rarity is an ordered quality tier. The zero value is not a valid tier.
type Rarity int

const (
	Common Rarity = iota + 1
	Uncommon
	Rare
	Epic
	Legendary
)

// Rarities lists every tier from lowest to highest.
var Rarities = []Rarity{Common, Uncommon, Rare, Epic, Legendary}

func (r Rarity) String() string {
	switch r {
	case Common:
		return "Common"
	case Uncommon:
		return "Uncommon"
	case Rare:
		return "Rare"
	case Epic:
		return "Epic"
	case Legendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

// Score maps Common..Legendary onto 1..5.
func (r Rarity) Score() int {
	if r < Common || r > Legendary {
		return int(Common)
	}
	return int(r)
}

// Valid reports whether r is a known tier.
func (r Rarity) Valid() bool {
	return r >= Common && r <= Legendary
}

// ParseRarity accepts the tier name as produced by String.
func ParseRarity(s string) (Rarity, error) {
	for _, r := range Rarities {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rarity %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Value stores the tier by name.
func (r Rarity) Value() (driver.Value, error) {
	return r.String(), nil
}

func (r *Rarity) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		*r = Common
		return nil
	}
	return fmt.Errorf("cannot scan %T into Rarity", src)
}

// Bloodline is a horse's ancestry line.
type Bloodline string

const (
	BloodlineA         Bloodline = "A"
	BloodlineB         Bloodline = "B"
	BloodlineC         Bloodline = "C"
	BloodlineD         Bloodline = "D"
	BloodlineLegendary Bloodline = "Legendary"
)

// Bloodlines lists every known bloodline.
var Bloodlines = []Bloodline{BloodlineA, BloodlineB, BloodlineC, BloodlineD, BloodlineLegendary}

// Valid reports whether b is a known bloodline.
func (b Bloodline) Valid() bool {
	switch b {
	case BloodlineA, BloodlineB, BloodlineC, BloodlineD, BloodlineLegendary:
		return true
	}
	return false
}
