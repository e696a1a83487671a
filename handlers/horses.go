package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/studbook/middleware"
)

// ListHorses returns the calling player's horses.
func (h *Handler) ListHorses(c echo.Context) error {
	horses, err := h.store.HorsesByOwner(c.Request().Context(), mw.PlayerID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, horses)
}

// GetHorse returns one of the calling player's horses.
func (h *Handler) GetHorse(c echo.Context) error {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		return err
	}
	horse, err := h.ownedHorse(c, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, horse)
}
