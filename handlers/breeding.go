package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/studbook/models"
)

var errNotBreedable = errors.New("horse cannot breed")

type pairRequest struct {
	MareID     int64 `json:"mareID"`
	StallionID int64 `json:"stallionID"`
}

func (h *Handler) loadPair(c echo.Context) (*models.Horse, *models.Horse, error) {
	var req pairRequest
	if err := c.Bind(&req); err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MareID <= 0 || req.StallionID <= 0 {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "mareID and stallionID are required")
	}
	mare, err := h.ownedHorse(c, req.MareID)
	if err != nil {
		return nil, nil, err
	}
	stallion, err := h.ownedHorse(c, req.StallionID)
	if err != nil {
		return nil, nil, err
	}
	return mare, stallion, nil
}

// AnalyzeBreeding scores a prospective pairing without committing to it.
func (h *Handler) AnalyzeBreeding(c echo.Context) error {
	mare, stallion, err := h.loadPair(c)
	if err != nil {
		return err
	}
	analysis, err := h.breeding.AnalyzeCompatibility(mare, stallion)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, analysis)
}

func (h *Handler) checkBreedable(horse *models.Horse) error {
	switch {
	case !horse.CanBreed:
		return fmt.Errorf("%w: %s is not mature", errNotBreedable, horse.Name)
	case horse.OnCooldown(h.now()):
		return fmt.Errorf("%w: %s is resting until %s", errNotBreedable, horse.Name, horse.BreedingCooldownUntil.Format("2006-01-02 15:04"))
	case h.training.IsTraining(horse.HorseID):
		return fmt.Errorf("%w: %s is in training", errNotBreedable, horse.Name)
	}
	return nil
}

// Breed produces and stores a foal from two of the player's horses and
// puts both parents on cooldown.
func (h *Handler) Breed(c echo.Context) error {
	mare, stallion, err := h.loadPair(c)
	if err != nil {
		return err
	}
	for _, parent := range []*models.Horse{mare, stallion} {
		if err := h.checkBreedable(parent); err != nil {
			return httpError(err)
		}
	}

	res, err := h.breeding.Breed(mare, stallion)
	if err != nil {
		return httpError(err)
	}

	rec := &models.BreedingRecord{
		OwnerID:     mare.OwnerID,
		MareID:      mare.HorseID,
		StallionID:  stallion.HorseID,
		Mutations:   res.Mutations,
		Description: res.Description,
	}
	if err := h.store.SaveBreeding(c.Request().Context(), res.Offspring, rec, h.now().Add(h.cooldown)); err != nil {
		h.log.Error("save breeding failed", zap.Int64("mare", mare.HorseID), zap.Int64("stallion", stallion.HorseID), zap.Error(err))
		return httpError(err)
	}

	h.log.Info("foal bred",
		zap.Int64("foal", res.Offspring.HorseID),
		zap.Int64("mare", mare.HorseID),
		zap.Int64("stallion", stallion.HorseID),
		zap.Stringer("rarity", res.Offspring.Rarity),
		zap.Int("mutations", len(res.Mutations)),
	)
	return c.JSON(http.StatusCreated, res)
}
