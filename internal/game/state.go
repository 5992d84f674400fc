package game

import (
	"errors"
	"time"

	"github.com/swipekick/backend/internal/geom"
	"github.com/swipekick/backend/internal/physics"
	"github.com/swipekick/backend/internal/shot"
)

// SessionStatus represents the current state of a session
type SessionStatus string

const (
	StatusActive   SessionStatus = "ACTIVE"
	StatusGameOver SessionStatus = "GAME_OVER"
	StatusExpired  SessionStatus = "EXPIRED"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionOver      = errors.New("session is over")
	ErrAwaitingContinue = errors.New("continue required after a miss")
	ErrNoShotInFlight   = errors.New("no shot in flight")
	ErrShotUnresolved   = errors.New("shot did not resolve")
	ErrNotSessionOwner  = errors.New("session belongs to another player")
)

// TrajectoryPoint is one sampled ball position.
type TrajectoryPoint struct {
	T        float64   `json:"t"`
	Position geom.Vec3 `json:"position"`
}

// Frame is the ball state pushed to real-time clients.
type Frame struct {
	Token       string            `json:"session_token"`
	Sequence    int               `json:"sequence"`
	Phase       shot.Phase        `json:"phase"`
	Time        float64           `json:"time"`
	Ball        physics.BallState `json:"ball"`
	CurveActive bool              `json:"curve_active"`
}

// ShotSummary is the per-shot line kept in a session's history.
type ShotSummary struct {
	Sequence   int           `json:"sequence"`
	ShotType   shot.ShotType `json:"shot_type"`
	Outcome    shot.Outcome  `json:"outcome"`
	Saved      bool          `json:"saved"`
	SavedBy    string        `json:"saved_by,omitempty"`
	FlightTime float64       `json:"flight_time"`
}

// ResolvedShot is a launched attempt together with its outcome.
type ResolvedShot struct {
	Attempt          *shot.ShotAttempt `json:"attempt"`
	Outcome          shot.OutcomeEvent `json:"outcome"`
	Trajectory       []TrajectoryPoint `json:"trajectory"`
	Score            int               `json:"score"`
	ConsecutiveFails int               `json:"consecutive_fails"`
	GameOver         bool              `json:"game_over"`
}

// SessionSnapshot is the JSON view of a session, also stored in Redis.
type SessionSnapshot struct {
	ID               int           `json:"id"`
	Token            string        `json:"session_token"`
	PlayerID         int           `json:"player_id"`
	PlayerName       string        `json:"player_name"`
	Status           SessionStatus `json:"status"`
	Phase            shot.Phase    `json:"phase"`
	Score            int           `json:"score"`
	Attempts         int           `json:"attempts"`
	ConsecutiveFails int           `json:"consecutive_fails"`
	MaxFails         int           `json:"max_fails"`
	Streak           int           `json:"streak"`
	BestStreak       int           `json:"best_streak"`
	AwaitingContinue bool          `json:"awaiting_continue"`
	History          []ShotSummary `json:"history"`
	CreatedAt        time.Time     `json:"created_at"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
	LastActivity     time.Time     `json:"last_activity"`
}
