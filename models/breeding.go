package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BreedingRecord links an offspring to its parents.
type BreedingRecord struct {
	bun.BaseModel `bun:"table:breeding_records,alias:br"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	OwnerID     int64     `bun:"owner_id,notnull" json:"ownerID"`
	MareID      int64     `bun:"mare_id,notnull" json:"mareID"`
	StallionID  int64     `bun:"stallion_id,notnull" json:"stallionID"`
	OffspringID int64     `bun:"offspring_id,notnull,unique" json:"offspringID"`
	Mutations   []string  `bun:"mutations,array" json:"mutations"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}
