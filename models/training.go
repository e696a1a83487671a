package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Training session statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// TrainingSession records one timed training run and, once resolved, its outcome.
type TrainingSession struct {
	bun.BaseModel `bun:"table:training_sessions,alias:ts"`

	SessionID string    `bun:"session_id,pk" json:"sessionID"`
	HorseID   int64     `bun:"horse_id,notnull" json:"horseID"`
	ProgramID string    `bun:"program_id,notnull" json:"programID"`
	StartedAt time.Time `bun:"started_at,notnull" json:"startedAt"`
	EndsAt    time.Time `bun:"ends_at,notnull" json:"endsAt"`
	Status    string    `bun:"status,notnull" json:"status"`

	Success          *bool          `bun:"success" json:"success,omitempty"`
	StatChanges      map[string]int `bun:"stat_changes,type:jsonb" json:"statChanges,omitempty"`
	FitnessDelta     *int           `bun:"fitness_delta" json:"fitnessDelta,omitempty"`
	ExperienceGained *int           `bun:"experience_gained" json:"experienceGained,omitempty"`
	Message          *string        `bun:"message" json:"message,omitempty"`
	CompletedAt      *time.Time     `bun:"completed_at" json:"completedAt,omitempty"`
}
