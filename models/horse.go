package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/studbook/stats"
)

// Horse is a bred or foundation racehorse owned by a player.
type Horse struct {
	bun.BaseModel `bun:"table:horses,alias:h"`

	HorseID    int64           `bun:"horse_id,pk,autoincrement" json:"horseID"`
	Name       string          `bun:"name,notnull" json:"name"`
	OwnerID    int64           `bun:"owner_id,notnull" json:"ownerID"`
	Stats      stats.Bundle    `bun:"embed:stat_" json:"stats"`
	Bloodline  stats.Bloodline `bun:"bloodline,notnull" json:"bloodline"`
	Rarity     stats.Rarity    `bun:"rarity,notnull,type:varchar(16)" json:"rarity"`
	Generation int             `bun:"generation,notnull,default:0" json:"generation"`
	AgeMonths  int             `bun:"age_months,notnull" json:"ageMonths"`
	Fitness    int             `bun:"fitness,notnull" json:"fitness"`
	Experience int             `bun:"experience,notnull,default:0" json:"experience"`
	RaceCount  int             `bun:"race_count,notnull,default:0" json:"raceCount"`

	CanBreed              bool       `bun:"can_breed,notnull,default:false" json:"canBreed"`
	BreedingCooldownUntil *time.Time `bun:"breeding_cooldown_until" json:"breedingCooldownUntil,omitempty"`

	CoatColor   string   `bun:"coat_color,notnull" json:"coatColor"`
	Markings    []string `bun:"markings,array" json:"markings"`
	Personality string   `bun:"personality" json:"personality,omitempty"`
	Quirk       string   `bun:"quirk" json:"quirk,omitempty"`
	Backstory   string   `bun:"backstory" json:"backstory,omitempty"`

	MareID     *int64 `bun:"mare_id" json:"mareID,omitempty"`
	StallionID *int64 `bun:"stallion_id" json:"stallionID,omitempty"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// OnCooldown reports whether the horse is still resting after a breeding.
func (h *Horse) OnCooldown(now time.Time) bool {
	return h.BreedingCooldownUntil != nil && now.Before(*h.BreedingCooldownUntil)
}
