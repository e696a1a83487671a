package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/studbook/breeding"
	"github.com/padraicbc/studbook/checkin"
	"github.com/padraicbc/studbook/db"
	mw "github.com/padraicbc/studbook/middleware"
	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/training"
)

// Store is the persistence the handlers need. *db.Store implements it.
type Store interface {
	PlayerByUsername(ctx context.Context, username string) (*models.Player, error)
	PlayerByID(ctx context.Context, id int64) (*models.Player, error)
	HorsesByOwner(ctx context.Context, ownerID int64) ([]models.Horse, error)
	HorseByID(ctx context.Context, id int64) (*models.Horse, error)
	SaveBreeding(ctx context.Context, foal *models.Horse, rec *models.BreedingRecord, cooldownUntil time.Time) error
	StartTraining(ctx context.Context, playerID int64, cost int64, sess *models.TrainingSession) error
	CompleteTraining(ctx context.Context, h *models.Horse, sess *models.TrainingSession) error
	ActiveSessions(ctx context.Context) ([]models.TrainingSession, error)
	RecordCheckIn(ctx context.Context, p *models.Player, prev *time.Time, reward int64, c *models.CheckIn) error
}

// Deps are the collaborators a Handler is built from.
type Deps struct {
	Store            Store
	Breeding         *breeding.Engine
	Training         *training.Engine
	CheckIn          *checkin.Machine
	Logger           *zap.Logger
	Now              func() time.Time
	JWTKey           []byte
	BreedingCooldown time.Duration
	IsAdmin          func(username string) bool
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	store    Store
	breeding *breeding.Engine
	training *training.Engine
	checkin  *checkin.Machine
	log      *zap.Logger
	now      func() time.Time
	cooldown time.Duration
	isAdmin  func(string) bool
	JWTKey   []byte
}

// New creates a Handler. Missing engines, clock and logger get defaults.
func New(d Deps) *Handler {
	h := &Handler{
		store:    d.Store,
		breeding: d.Breeding,
		training: d.Training,
		checkin:  d.CheckIn,
		log:      d.Logger,
		now:      d.Now,
		cooldown: d.BreedingCooldown,
		isAdmin:  d.IsAdmin,
		JWTKey:   d.JWTKey,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.breeding == nil {
		h.breeding = breeding.New(nil)
	}
	if h.training == nil {
		h.training = training.New(h.now, nil)
	}
	if h.checkin == nil {
		h.checkin = checkin.New(h.now)
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.isAdmin == nil {
		h.isAdmin = func(string) bool { return false }
	}
	return h
}

// httpError maps engine and storage errors onto HTTP statuses.
func httpError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, db.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, breeding.ErrValidation), errors.Is(err, training.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, training.ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, training.ErrAlreadyTraining),
		errors.Is(err, training.ErrIneligible),
		errors.Is(err, checkin.ErrNotYetEligible),
		errors.Is(err, errNotBreedable),
		errors.Is(err, db.ErrStale):
		code = http.StatusConflict
	case errors.Is(err, db.ErrInsufficientFunds):
		code = http.StatusPaymentRequired
	}
	return echo.NewHTTPError(code, err.Error())
}

func parseID(s, name string) (int64, error) {
	if s == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "missing "+name+" param")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" param")
	}
	return id, nil
}

// ownedHorse loads a horse belonging to the calling player. Other players'
// horses are reported as not found.
func (h *Handler) ownedHorse(c echo.Context, id int64) (*models.Horse, error) {
	horse, err := h.store.HorseByID(c.Request().Context(), id)
	if err != nil {
		return nil, httpError(err)
	}
	if horse.OwnerID != mw.PlayerID(c) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "horse not found")
	}
	return horse, nil
}
