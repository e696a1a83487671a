package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/studbook/checkin"
	"github.com/padraicbc/studbook/db"
	mw "github.com/padraicbc/studbook/middleware"
	"github.com/padraicbc/studbook/models"
)

type checkInStatusJSON struct {
	CanClaim        bool  `json:"canClaim"`
	TimeUntilNextMs int64 `json:"timeUntilNext"`
	Streak          int   `json:"streak"`
}

type claimJSON struct {
	Accepted  bool  `json:"accepted"`
	Reward    int   `json:"reward"`
	NewStreak int   `json:"newStreak"`
	Balance   int64 `json:"balance"`
}

func stateOf(p *models.Player) checkin.State {
	return checkin.State{LastCheckIn: p.LastCheckIn, Streak: p.CheckInStreak}
}

// CheckInStatus reports whether the daily reward can be claimed.
func (h *Handler) CheckInStatus(c echo.Context) error {
	player, err := h.store.PlayerByID(c.Request().Context(), mw.PlayerID(c))
	if err != nil {
		return httpError(err)
	}
	st := h.checkin.Status(stateOf(player))
	return c.JSON(http.StatusOK, checkInStatusJSON{
		CanClaim:        st.CanClaim,
		TimeUntilNextMs: st.TimeUntilNext.Milliseconds(),
		Streak:          st.Streak,
	})
}

// ClaimCheckIn pays the daily reward and advances the streak.
func (h *Handler) ClaimCheckIn(c echo.Context) error {
	ctx := c.Request().Context()
	player, err := h.store.PlayerByID(ctx, mw.PlayerID(c))
	if err != nil {
		return httpError(err)
	}

	claim, err := h.checkin.Claim(stateOf(player))
	if err != nil {
		return httpError(err)
	}

	prev := player.LastCheckIn
	player.LastCheckIn = claim.State.LastCheckIn
	player.CheckInStreak = claim.State.Streak
	rec := &models.CheckIn{
		PlayerID:  player.PlayerID,
		ClaimedAt: claim.ClaimedAt,
		Reward:    claim.Reward,
		Streak:    claim.NewStreak,
	}
	if err := h.store.RecordCheckIn(ctx, player, prev, int64(claim.Reward), rec); err != nil {
		if errors.Is(err, db.ErrStale) {
			return httpError(fmt.Errorf("%w: claim already recorded", checkin.ErrNotYetEligible))
		}
		return httpError(err)
	}

	h.log.Info("check-in claimed",
		zap.Int64("player", player.PlayerID),
		zap.Int("reward", claim.Reward),
		zap.Int("streak", claim.NewStreak),
	)
	return c.JSON(http.StatusOK, claimJSON{
		Accepted:  claim.Accepted,
		Reward:    claim.Reward,
		NewStreak: claim.NewStreak,
		Balance:   player.Balance,
	})
}
