package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Player is an account with bcrypt-hashed password, coin balance and
// daily check-in state.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	PlayerID      int64      `bun:"player_id,pk,autoincrement" json:"playerID"`
	Username      string     `bun:"username,notnull,unique" json:"username"`
	Password      string     `bun:"password,notnull" json:"-"`
	Balance       int64      `bun:"balance,notnull,default:0" json:"balance"`
	FacilityLevel int        `bun:"facility_level,notnull,default:1" json:"facilityLevel"`
	LastCheckIn   *time.Time `bun:"last_check_in" json:"lastCheckIn,omitempty"`
	CheckInStreak int        `bun:"check_in_streak,notnull,default:0" json:"checkInStreak"`
}
