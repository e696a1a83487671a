package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CheckIn is one claimed daily reward.
type CheckIn struct {
	bun.BaseModel `bun:"table:check_ins,alias:ci"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID  int64     `bun:"player_id,notnull" json:"playerID"`
	ClaimedAt time.Time `bun:"claimed_at,notnull" json:"claimedAt"`
	Reward    int       `bun:"reward,notnull" json:"reward"`
	Streak    int       `bun:"streak,notnull" json:"streak"`
}
