// Package training runs timed stat-training sessions for horses.
//
// The engine computes outcomes but never edits a horse; callers pass the
// returned Result to Apply and persist the horse themselves.
package training

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/padraicbc/studbook/models"
	"github.com/padraicbc/studbook/stats"
)

var (
	// ErrValidation indicates a missing horse or unknown program.
	ErrValidation = errors.New("invalid training input")
	// ErrAlreadyTraining indicates the horse already has an active session.
	ErrAlreadyTraining = errors.New("horse is already training")
	// ErrSessionNotFound indicates no active session matches the request.
	ErrSessionNotFound = errors.New("training session not found")
	// ErrIneligible indicates the horse or facility does not meet program requirements.
	ErrIneligible = errors.New("not eligible for program")
)

const (
	bonusChance  = 0.15
	recommendTop = 3
)

// Session statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Session is one horse working through one program.
type Session struct {
	ID        string    `json:"id"`
	HorseID   int64     `json:"horseID"`
	ProgramID string    `json:"programID"`
	StartedAt time.Time `json:"startedAt"`
	EndsAt    time.Time `json:"endsAt"`
	Status    string    `json:"status"`
}

// Result describes what a finished session changed.
type Result struct {
	SessionID        string              `json:"sessionID"`
	HorseID          int64               `json:"horseID"`
	ProgramID        string              `json:"programID"`
	Status           string              `json:"status"`
	Success          bool                `json:"success"`
	SuccessRate      float64             `json:"successRate"`
	StatChanges      map[stats.Trait]int `json:"statChanges"`
	FitnessDelta     int                 `json:"fitnessDelta"`
	ExperienceGained int                 `json:"experienceGained"`
	Message          string              `json:"message"`
}

// Engine tracks active sessions, at most one per horse.
type Engine struct {
	now  func() time.Time
	rand func() float64

	mu       sync.Mutex
	sessions map[int64]*Session
}

// New returns an Engine. Nil now or rnd fall back to time.Now and math/rand/v2.
func New(now func() time.Time, rnd func() float64) *Engine {
	if now == nil {
		now = time.Now
	}
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Engine{now: now, rand: rnd, sessions: make(map[int64]*Session)}
}

// AvailablePrograms filters the catalog to what h can take at facilityLevel.
func (e *Engine) AvailablePrograms(h *models.Horse, facilityLevel int) []Program {
	if h == nil {
		return nil
	}
	var out []Program
	for _, p := range catalog {
		if p.Eligible(h, facilityLevel) == nil {
			out = append(out, p)
		}
	}
	return out
}

// RecommendedPrograms returns up to three available programs, favouring the
// traits with the most room to grow.
func (e *Engine) RecommendedPrograms(h *models.Horse, facilityLevel int) []Program {
	out := e.AvailablePrograms(h, facilityLevel)
	slices.SortStableFunc(out, func(a, b Program) int {
		return cmp.Compare(100-h.Stats.Get(b.Trait), 100-h.Stats.Get(a.Trait))
	})
	if len(out) > recommendTop {
		out = out[:recommendTop]
	}
	return out
}

// Start begins a session for h. It fails if h is already training or does
// not meet the program's requirements.
func (e *Engine) Start(h *models.Horse, programID string, facilityLevel int) (*Session, error) {
	if h == nil || h.HorseID == 0 {
		return nil, fmt.Errorf("%w: horse is required", ErrValidation)
	}
	p, ok := Lookup(programID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown program %q", ErrValidation, programID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.sessions[h.HorseID]; busy {
		return nil, fmt.Errorf("%w: horse %d", ErrAlreadyTraining, h.HorseID)
	}
	if err := p.Eligible(h, facilityLevel); err != nil {
		return nil, err
	}

	start := e.now()
	s := &Session{
		ID:        uuid.NewString(),
		HorseID:   h.HorseID,
		ProgramID: p.ID,
		StartedAt: start,
		EndsAt:    start.Add(time.Duration(p.DurationMinutes) * time.Minute),
		Status:    StatusActive,
	}
	e.sessions[h.HorseID] = s
	cp := *s
	return &cp, nil
}

// Restore re-registers a session loaded from storage.
func (e *Engine) Restore(s Session) error {
	if _, ok := Lookup(s.ProgramID); !ok {
		return fmt.Errorf("%w: unknown program %q", ErrValidation, s.ProgramID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.sessions[s.HorseID]; busy {
		return fmt.Errorf("%w: horse %d", ErrAlreadyTraining, s.HorseID)
	}
	s.Status = StatusActive
	e.sessions[s.HorseID] = &s
	return nil
}

// Release drops a session that was never recorded by the caller. It is not
// a player-facing cancel; sessions otherwise only end through Complete.
func (e *Engine) Release(horseID int64, sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[horseID]; ok && s.ID == sessionID {
		delete(e.sessions, horseID)
		return true
	}
	return false
}

// Active returns the horse's current session.
func (e *Engine) Active(horseID int64) (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[horseID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// IsTraining reports whether the horse has an active session.
func (e *Engine) IsTraining(horseID int64) bool {
	_, ok := e.Active(horseID)
	return ok
}

// Progress returns how far through its session the horse is, 0-100.
func (e *Engine) Progress(horseID int64) float64 {
	s, ok := e.Active(horseID)
	if !ok {
		return 0
	}
	total := s.EndsAt.Sub(s.StartedAt)
	if total <= 0 {
		return 100
	}
	pct := float64(e.now().Sub(s.StartedAt)) / float64(total) * 100
	return math.Max(0, math.Min(100, pct))
}

// Complete resolves the horse's session. The session ends whether the
// training succeeded or not.
func (e *Engine) Complete(h *models.Horse, sessionID string) (*Result, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: horse is required", ErrValidation)
	}

	e.mu.Lock()
	s, ok := e.sessions[h.HorseID]
	if !ok || s.ID != sessionID {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: horse %d session %q", ErrSessionNotFound, h.HorseID, sessionID)
	}
	delete(e.sessions, h.HorseID)
	e.mu.Unlock()

	p, _ := Lookup(s.ProgramID)
	return e.resolve(h, p, s), nil
}

func (e *Engine) resolve(h *models.Horse, p Program, s *Session) *Result {
	rate := SuccessRate(p, h)
	res := &Result{
		SessionID:   s.ID,
		HorseID:     h.HorseID,
		ProgramID:   p.ID,
		SuccessRate: rate,
		StatChanges: map[stats.Trait]int{p.Trait: 0},
	}

	if e.rand()*100 >= rate {
		res.Status = StatusFailed
		res.FitnessDelta = p.FitnessDelta / 2
		res.ExperienceGained = int(float64(p.ExperienceGain) * 0.3)
		res.Message = fmt.Sprintf("%s did not respond to %s this time.", h.Name, p.Name)
		return res
	}

	gain := EffectiveBoost(p.StatBoost, h.Stats.Get(p.Trait))
	res.Message = fmt.Sprintf("%s completed %s: %s +%d.", h.Name, p.Name, p.Trait.Label(), gain)
	if e.rand() < bonusChance {
		if extra := gain / 2; extra > 0 {
			gain += extra
			res.Message += fmt.Sprintf(" Breakthrough! An extra +%d.", extra)
		}
	}

	res.Status = StatusCompleted
	res.Success = true
	res.StatChanges[p.Trait] = gain
	res.FitnessDelta = p.FitnessDelta
	res.ExperienceGained = p.ExperienceGain
	return res
}

// Apply writes a result onto h: stats stay within [1,100], fitness within
// [0,100], and experience never decreases.
func Apply(h *models.Horse, r *Result) {
	for t, d := range r.StatChanges {
		h.Stats.Add(t, d)
	}
	h.Fitness = stats.ClampRange(h.Fitness+r.FitnessDelta, 0, 100)
	h.Experience += max(0, r.ExperienceGained)
}
