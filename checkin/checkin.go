// Package checkin implements the daily reward claim and its streak counter.
package checkin

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotYetEligible indicates a claim inside the 24h cooldown.
var ErrNotYetEligible = errors.New("daily reward already claimed")

const (
	// Window is the minimum gap between claims.
	Window = 24 * time.Hour
	// StreakBreak is the gap after which the streak starts over.
	StreakBreak = 2 * Window

	BaseReward     = 1000
	StreakStep     = 100
	MaxStreakBonus = 1000
)

// State is a player's persisted check-in data.
type State struct {
	LastCheckIn *time.Time `json:"lastCheckIn,omitempty"`
	Streak      int        `json:"streak"`
}

// Status is what the player can see before claiming.
type Status struct {
	CanClaim      bool          `json:"canClaim"`
	TimeUntilNext time.Duration `json:"timeUntilNext"`
	Streak        int           `json:"streak"`
}

// Claim is an accepted check-in. State holds the values to persist.
type Claim struct {
	Accepted  bool      `json:"accepted"`
	Reward    int       `json:"reward"`
	NewStreak int       `json:"newStreak"`
	ClaimedAt time.Time `json:"claimedAt"`
	State     State     `json:"-"`
}

// Machine evaluates check-ins against a clock.
type Machine struct {
	now func() time.Time
}

// New returns a Machine. A nil now uses time.Now.
func New(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now}
}

// StreakBonus is the extra reward for claiming with the given prior streak.
func StreakBonus(streak int) int {
	return min(MaxStreakBonus, (streak+1)*StreakStep)
}

// Reward is the total payout for a claim made with the given prior streak.
func Reward(streak int) int {
	return BaseReward + StreakBonus(streak)
}

// Status reports whether s can claim now and how long until it can.
func (m *Machine) Status(s State) Status {
	if s.LastCheckIn == nil {
		return Status{CanClaim: true, Streak: s.Streak}
	}
	wait := max(0, Window-m.now().Sub(*s.LastCheckIn))
	return Status{CanClaim: wait == 0, TimeUntilNext: wait, Streak: s.Streak}
}

// Claim accepts a check-in if 24h have passed. The streak carries on if the
// last claim was under 48h ago and otherwise restarts at 1.
func (m *Machine) Claim(s State) (*Claim, error) {
	now := m.now()
	if st := m.Status(s); !st.CanClaim {
		return nil, fmt.Errorf("%w: next claim in %s", ErrNotYetEligible, st.TimeUntilNext.Round(time.Minute))
	}

	streak := 1
	if s.LastCheckIn != nil && now.Sub(*s.LastCheckIn) < StreakBreak {
		streak = s.Streak + 1
	}

	return &Claim{
		Accepted:  true,
		Reward:    Reward(s.Streak),
		NewStreak: streak,
		ClaimedAt: now,
		State:     State{LastCheckIn: &now, Streak: streak},
	}, nil
}
