package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Player is a guest or registered shooter.
type Player struct {
	ID            int            `db:"id" json:"id"`
	DisplayName   string         `db:"display_name" json:"display_name"`
	DeviceID      sql.NullString `db:"device_id" json:"-"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	TotalSessions int            `db:"total_sessions" json:"total_sessions"`
	TotalShots    int            `db:"total_shots" json:"total_shots"`
	TotalGoals    int            `db:"total_goals" json:"total_goals"`
	BestScore     int            `db:"best_score" json:"best_score"`
	IsBlocked     bool           `db:"is_blocked" json:"is_blocked"`
	LastActive    sql.NullTime   `db:"last_active" json:"last_active,omitempty"`
}

// GameSession is one run of shots until game over or expiry.
type GameSession struct {
	ID           int          `db:"id" json:"id"`
	SessionToken string       `db:"session_token" json:"session_token"`
	PlayerID     int          `db:"player_id" json:"player_id"`
	Status       string       `db:"status" json:"status"`
	Score        int          `db:"score" json:"score"`
	Attempts     int          `db:"attempts" json:"attempts"`
	MaxFails     int          `db:"max_fails" json:"max_fails"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	StartedAt    sql.NullTime `db:"started_at" json:"started_at,omitempty"`
	CompletedAt  sql.NullTime `db:"completed_at" json:"completed_at,omitempty"`
}

// ShotRecord is a persisted shot attempt. Result holds the launch and outcome JSON.
type ShotRecord struct {
	ID             int             `db:"id" json:"id"`
	SessionID      int             `db:"session_id" json:"session_id"`
	PlayerID       int             `db:"player_id" json:"player_id"`
	Sequence       int             `db:"sequence" json:"sequence"`
	ShotType       string          `db:"shot_type" json:"shot_type"`
	Power          float64         `db:"power" json:"power"`
	CurveAmount    float64         `db:"curve_amount" json:"curve_amount"`
	CurveDirection int             `db:"curve_direction" json:"curve_direction"`
	HeightFactor   float64         `db:"height_factor" json:"height_factor"`
	Outcome        string          `db:"outcome" json:"outcome"`
	Saved          bool            `db:"saved" json:"saved"`
	FlightTime     float64         `db:"flight_time" json:"flight_time"`
	Result         json.RawMessage `db:"result" json:"result"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// AdminAccount is an operator allowed to tune the pipeline at runtime.
type AdminAccount struct {
	ID        int            `db:"id" json:"id"`
	Username  string         `db:"username" json:"username"`
	TokenHash string         `db:"token_hash" json:"-"`
	Roles     pq.StringArray `db:"roles" json:"roles"`
	IsActive  bool           `db:"is_active" json:"is_active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// RuntimeConfig is a key/value override row.
type RuntimeConfig struct {
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	ValueType   string    `db:"value_type" json:"value_type"`
	Description string    `db:"description" json:"description"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AdminAuditLog records every admin mutation.
type AdminAuditLog struct {
	ID        int             `db:"id" json:"id"`
	Username  string          `db:"username" json:"username"`
	IP        string          `db:"ip" json:"ip"`
	Route     string          `db:"route" json:"route"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
