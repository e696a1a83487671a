package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/studbook/db"
	mw "github.com/padraicbc/studbook/middleware"
	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/training"
)

type startRequest struct {
	HorseID   int64  `json:"horseID"`
	ProgramID string `json:"programID"`
}

type completeRequest struct {
	HorseID   int64  `json:"horseID"`
	SessionID string `json:"sessionID"`
}

type progressJSON struct {
	Training bool              `json:"training"`
	Progress float64           `json:"progress"`
	Session  *training.Session `json:"session,omitempty"`
}

type completeJSON struct {
	Result *training.Result `json:"result"`
	Horse  *models.Horse    `json:"horse"`
}

// RestoreSessions loads unresolved sessions into the training engine.
func (h *Handler) RestoreSessions(ctx context.Context) (int, error) {
	rows, err := h.store.ActiveSessions(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range rows {
		err := h.training.Restore(training.Session{
			ID:        r.SessionID,
			HorseID:   r.HorseID,
			ProgramID: r.ProgramID,
			StartedAt: r.StartedAt,
			EndsAt:    r.EndsAt,
		})
		if err != nil {
			h.log.Warn("skipping session", zap.String("session", r.SessionID), zap.Error(err))
			continue
		}
		n++
	}
	return n, nil
}

func (h *Handler) horseAndPlayer(c echo.Context) (*models.Horse, *models.Player, error) {
	id, err := parseID(c.QueryParam("horseID"), "horseID")
	if err != nil {
		return nil, nil, err
	}
	horse, err := h.ownedHorse(c, id)
	if err != nil {
		return nil, nil, err
	}
	player, err := h.store.PlayerByID(c.Request().Context(), mw.PlayerID(c))
	if err != nil {
		return nil, nil, httpError(err)
	}
	return horse, player, nil
}

// TrainingPrograms lists programs the horse can take at the player's facility.
func (h *Handler) TrainingPrograms(c echo.Context) error {
	horse, player, err := h.horseAndPlayer(c)
	if err != nil {
		return err
	}
	progs := h.training.AvailablePrograms(horse, player.FacilityLevel)
	if progs == nil {
		progs = []training.Program{}
	}
	return c.JSON(http.StatusOK, progs)
}

// RecommendedPrograms lists the top programs for the horse's weakest traits.
func (h *Handler) RecommendedPrograms(c echo.Context) error {
	horse, player, err := h.horseAndPlayer(c)
	if err != nil {
		return err
	}
	progs := h.training.RecommendedPrograms(horse, player.FacilityLevel)
	if progs == nil {
		progs = []training.Program{}
	}
	return c.JSON(http.StatusOK, progs)
}

// StartTraining charges the program cost and starts a session.
func (h *Handler) StartTraining(c echo.Context) error {
	var req startRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.HorseID <= 0 || req.ProgramID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "horseID and programID are required")
	}
	prog, ok := training.Lookup(req.ProgramID)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown program "+req.ProgramID)
	}

	ctx := c.Request().Context()
	horse, err := h.ownedHorse(c, req.HorseID)
	if err != nil {
		return err
	}
	player, err := h.store.PlayerByID(ctx, mw.PlayerID(c))
	if err != nil {
		return httpError(err)
	}

	sess, err := h.training.Start(horse, prog.ID, player.FacilityLevel)
	if err != nil {
		return httpError(err)
	}

	row := &models.TrainingSession{
		SessionID: sess.ID,
		HorseID:   sess.HorseID,
		ProgramID: sess.ProgramID,
		StartedAt: sess.StartedAt,
		EndsAt:    sess.EndsAt,
		Status:    models.SessionActive,
	}
	if err := h.store.StartTraining(ctx, player.PlayerID, int64(prog.Cost), row); err != nil {
		h.training.Release(horse.HorseID, sess.ID)
		return httpError(err)
	}

	h.log.Info("training started",
		zap.Int64("horse", horse.HorseID),
		zap.String("program", prog.ID),
		zap.String("session", sess.ID),
		zap.Time("ends_at", sess.EndsAt),
	)
	return c.JSON(http.StatusCreated, sess)
}

// TrainingProgress reports how far through its session a horse is.
func (h *Handler) TrainingProgress(c echo.Context) error {
	id, err := parseID(c.QueryParam("horseID"), "horseID")
	if err != nil {
		return err
	}
	if _, err := h.ownedHorse(c, id); err != nil {
		return err
	}

	out := progressJSON{}
	if s, ok := h.training.Active(id); ok {
		out.Training = true
		out.Progress = h.training.Progress(id)
		out.Session = &s
	}
	return c.JSON(http.StatusOK, out)
}

// CompleteTraining resolves a session and applies the result to the horse.
func (h *Handler) CompleteTraining(c echo.Context) error {
	var req completeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.HorseID <= 0 || req.SessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "horseID and sessionID are required")
	}

	horse, err := h.ownedHorse(c, req.HorseID)
	if err != nil {
		return err
	}
	sess, _ := h.training.Active(horse.HorseID)
	res, err := h.training.Complete(horse, req.SessionID)
	if err != nil {
		return httpError(err)
	}
	training.Apply(horse, res)

	now := h.now()
	changes := make(map[string]int, len(res.StatChanges))
	for t, d := range res.StatChanges {
		changes[string(t)] = d
	}
	row := &models.TrainingSession{
		SessionID:        res.SessionID,
		Status:           res.Status,
		Success:          &res.Success,
		StatChanges:      changes,
		FitnessDelta:     &res.FitnessDelta,
		ExperienceGained: &res.ExperienceGained,
		Message:          &res.Message,
		CompletedAt:      &now,
	}
	if err := h.store.CompleteTraining(c.Request().Context(), horse, row); err != nil {
		h.log.Error("persist training result failed", zap.String("session", res.SessionID), zap.Error(err))
		// The stored session is still active, so the engine must hold it too.
		if !errors.Is(err, db.ErrStale) {
			if rerr := h.training.Restore(sess); rerr != nil {
				h.log.Warn("session not restored", zap.String("session", sess.ID), zap.Error(rerr))
			}
		}
		return httpError(errors.Join(errors.New("training result not saved"), err))
	}

	h.log.Info("training resolved",
		zap.Int64("horse", horse.HorseID),
		zap.String("session", res.SessionID),
		zap.Bool("success", res.Success),
	)
	return c.JSON(http.StatusOK, completeJSON{Result: res, Horse: horse})
}
