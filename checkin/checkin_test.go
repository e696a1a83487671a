package checkin

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestStreakBonusCap(t *testing.T) {
	tests := []struct {
		streak, want int
	}{
		{0, 100},
		{5, 600},
		{9, 1000},
		{10, 1000},
		{15, 1000},
	}
	for _, tt := range tests {
		if got := StreakBonus(tt.streak); got != tt.want {
			t.Errorf("StreakBonus(%d) = %d, want %d", tt.streak, got, tt.want)
		}
		if got := Reward(tt.streak); got != 1000+tt.want {
			t.Errorf("Reward(%d) = %d, want %d", tt.streak, got, 1000+tt.want)
		}
	}
}

func TestStatusNeverChecked(t *testing.T) {
	m := New(func() time.Time { return now })
	st := m.Status(State{})
	if !st.CanClaim || st.TimeUntilNext != 0 || st.Streak != 0 {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusBoundaries(t *testing.T) {
	m := New(func() time.Time { return now })

	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
		wait    time.Duration
	}{
		{"just claimed", 0, false, 24 * time.Hour},
		{"one minute short", 23*time.Hour + 59*time.Minute, false, time.Minute},
		{"exactly a day", 24 * time.Hour, true, 0},
		{"just past a day", 24*time.Hour + time.Minute, true, 0},
		{"long gone", 72 * time.Hour, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := m.Status(State{LastCheckIn: at(tt.elapsed), Streak: 3})
			if st.CanClaim != tt.want {
				t.Fatalf("CanClaim = %v, want %v", st.CanClaim, tt.want)
			}
			if st.TimeUntilNext != tt.wait {
				t.Fatalf("TimeUntilNext = %v, want %v", st.TimeUntilNext, tt.wait)
			}
			if st.Streak != 3 {
				t.Fatalf("Streak = %d", st.Streak)
			}
		})
	}
}

func TestClaim(t *testing.T) {
	m := New(func() time.Time { return now })

	tests := []struct {
		name       string
		state      State
		wantStreak int
		wantReward int
	}{
		{"first claim", State{}, 1, 1100},
		{"within window", State{LastCheckIn: at(30 * time.Hour), Streak: 4}, 5, 1500},
		{"just before break", State{LastCheckIn: at(48*time.Hour - time.Minute), Streak: 4}, 5, 1500},
		{"streak broken", State{LastCheckIn: at(48*time.Hour + time.Minute), Streak: 4}, 1, 1500},
		{"exactly two days", State{LastCheckIn: at(48 * time.Hour), Streak: 12}, 1, 2000},
		{"long streak capped", State{LastCheckIn: at(25 * time.Hour), Streak: 20}, 21, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := m.Claim(tt.state)
			if err != nil {
				t.Fatalf("claim: %v", err)
			}
			if !c.Accepted {
				t.Fatal("claim not accepted")
			}
			if c.NewStreak != tt.wantStreak {
				t.Fatalf("NewStreak = %d, want %d", c.NewStreak, tt.wantStreak)
			}
			if c.Reward != tt.wantReward {
				t.Fatalf("Reward = %d, want %d", c.Reward, tt.wantReward)
			}
			if c.State.Streak != tt.wantStreak || c.State.LastCheckIn == nil || !c.State.LastCheckIn.Equal(now) {
				t.Fatalf("unexpected new state %+v", c.State)
			}
		})
	}
}

func TestClaimTooSoon(t *testing.T) {
	m := New(func() time.Time { return now })
	_, err := m.Claim(State{LastCheckIn: at(23*time.Hour + 59*time.Minute), Streak: 2})
	if !errors.Is(err, ErrNotYetEligible) {
		t.Fatalf("error = %v, want ErrNotYetEligible", err)
	}
}

func TestClaimThenStatus(t *testing.T) {
	clock := now
	m := New(func() time.Time { return clock })

	c, err := m.Claim(State{})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if m.Status(c.State).CanClaim {
		t.Fatal("should not be able to claim twice in a row")
	}

	clock = clock.Add(24*time.Hour + time.Minute)
	c, err = m.Claim(c.State)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if c.NewStreak != 2 {
		t.Fatalf("streak = %d, want 2", c.NewStreak)
	}
}
