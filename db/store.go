package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/studbook/models"
)

var (
	// ErrNotFound wraps sql.ErrNoRows for callers that should not depend on database/sql.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds is returned when a player cannot cover a cost.
	ErrInsufficientFunds = errors.New("insufficient balance")
	// ErrStale is returned when a row changed after the caller read it.
	ErrStale = errors.New("row changed since read")
)

// Store is the bun-backed persistence for players, horses and their history.
type Store struct {
	db *bun.DB
}

// NewStore wraps an open connection.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// PlayerByUsername loads a player by login name.
func (s *Store) PlayerByUsername(ctx context.Context, username string) (*models.Player, error) {
	p := &models.Player{}
	err := s.db.NewSelect().Model(p).Where("username = ?", username).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "player "+username)
	}
	return p, nil
}

// PlayerByID loads a player.
func (s *Store) PlayerByID(ctx context.Context, id int64) (*models.Player, error) {
	p := &models.Player{}
	err := s.db.NewSelect().Model(p).Where("player_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("player %d", id))
	}
	return p, nil
}

// UpsertPlayer creates a player or, if the username exists, replaces the
// password. Balance is only set on creation.
func (s *Store) UpsertPlayer(ctx context.Context, p *models.Player) error {
	_, err := s.db.NewInsert().Model(p).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Returning("*").
		Exec(ctx)
	return err
}

// HorsesByOwner lists a player's horses, oldest first.
func (s *Store) HorsesByOwner(ctx context.Context, ownerID int64) ([]models.Horse, error) {
	var horses []models.Horse
	err := s.db.NewSelect().Model(&horses).
		Where("owner_id = ?", ownerID).
		Order("horse_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return horses, nil
}

// HorseByID loads a horse.
func (s *Store) HorseByID(ctx context.Context, id int64) (*models.Horse, error) {
	h := &models.Horse{}
	err := s.db.NewSelect().Model(h).Where("horse_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("horse %d", id))
	}
	return h, nil
}

// InsertHorse stores a new horse and fills in its ID.
func (s *Store) InsertHorse(ctx context.Context, h *models.Horse) error {
	_, err := s.db.NewInsert().Model(h).Returning("*").Exec(ctx)
	return err
}

// SaveBreeding stores the foal, puts both parents on cooldown and links
// them in a breeding record, all in one transaction.
func (s *Store) SaveBreeding(ctx context.Context, foal *models.Horse, rec *models.BreedingRecord, cooldownUntil time.Time) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(foal).Returning("*").Exec(ctx); err != nil {
			return fmt.Errorf("insert foal: %w", err)
		}

		rec.OffspringID = foal.HorseID
		if _, err := tx.NewInsert().Model(rec).Returning("*").Exec(ctx); err != nil {
			return fmt.Errorf("insert breeding record: %w", err)
		}

		_, err := tx.NewUpdate().Model((*models.Horse)(nil)).
			Set("breeding_cooldown_until = ?", cooldownUntil).
			Where("horse_id IN (?)", bun.In([]int64{rec.MareID, rec.StallionID})).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("set cooldown: %w", err)
		}
		return nil
	})
}

// StartTraining charges the player and records the session.
func (s *Store) StartTraining(ctx context.Context, playerID int64, cost int64, sess *models.TrainingSession) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Player)(nil)).
			Set("balance = balance - ?", cost).
			Where("player_id = ?", playerID).
			Where("balance >= ?", cost).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("charge player: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrInsufficientFunds
		}

		if _, err := tx.NewInsert().Model(sess).Exec(ctx); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

// CompleteTraining writes the trained stats, fitness and experience and the
// resolved session. Other horse columns are left to their current values.
func (s *Store) CompleteTraining(ctx context.Context, h *models.Horse, sess *models.TrainingSession) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().Model(h).
			Column(trainedColumns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update horse: %w", err)
		}
		res, err := tx.NewUpdate().Model(sess).
			Column("status", "success", "stat_changes", "fitness_delta", "experience_gained", "message", "completed_at").
			WherePK().
			Where("status = ?", models.SessionActive).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update session: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("session %s: %w", sess.SessionID, ErrStale)
		}
		return nil
	})
}

var trainedColumns = []string{
	"stat_speed", "stat_stamina", "stat_agility", "stat_temperament", "stat_intelligence",
	"fitness", "experience",
}

// ActiveSessions returns every unresolved training session.
func (s *Store) ActiveSessions(ctx context.Context) ([]models.TrainingSession, error) {
	var out []models.TrainingSession
	err := s.db.NewSelect().Model(&out).
		Where("status = ?", models.SessionActive).
		Scan(ctx)
	return out, err
}

// RecordCheckIn credits reward and stores p's new check-in state, provided
// the stored last check-in still equals prev. Otherwise another claim got
// there first and ErrStale is returned. p.Balance is refreshed on success.
func (s *Store) RecordCheckIn(ctx context.Context, p *models.Player, prev *time.Time, reward int64, c *models.CheckIn) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(p).
			Set("balance = balance + ?", reward).
			Set("last_check_in = ?", p.LastCheckIn).
			Set("check_in_streak = ?", p.CheckInStreak).
			WherePK().
			Where("last_check_in IS NOT DISTINCT FROM ?", prev).
			Returning("balance").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("update player: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("player %d check-in: %w", p.PlayerID, ErrStale)
		}
		if _, err := tx.NewInsert().Model(c).Returning("*").Exec(ctx); err != nil {
			return fmt.Errorf("insert check-in: %w", err)
		}
		return nil
	})
}

// AgeHorses adds a month to every horse and opens breeding to those that
// have reached maturityMonths.
func (s *Store) AgeHorses(ctx context.Context, maturityMonths int) (aged, matured int64, err error) {
	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model((*models.Horse)(nil)).
			Set("age_months = age_months + 1").
			Where("TRUE").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("age horses: %w", err)
		}
		aged, _ = res.RowsAffected()

		res, err = tx.NewUpdate().Model((*models.Horse)(nil)).
			Set("can_breed = TRUE").
			Where("can_breed = FALSE").
			Where("age_months >= ?", maturityMonths).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("mature horses: %w", err)
		}
		matured, _ = res.RowsAffected()
		return nil
	})
	return aged, matured, err
}
