package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/accounts"
	"github.com/swipekick/backend/internal/shot"
)

func sessionStateKey(token string) string {
	return "session:" + token + ":state"
}

func (gm *GameManager) sessionTTL() time.Duration {
	if gm.config == nil || gm.config.SessionTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(gm.config.SessionTTLMinutes) * time.Minute
}

// insertSession creates the game_sessions row and returns its id.
func (gm *GameManager) insertSession(s *Session) (int, error) {
	if gm == nil || gm.db == nil || s.PlayerID == 0 {
		return 0, nil
	}
	var id int
	err := gm.db.Get(&id, `
		INSERT INTO game_sessions (session_token, player_id, status, max_fails, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`, s.Token, s.PlayerID, string(StatusActive), s.MaxFails)
	return id, err
}

// MarkSessionStarted sets started_at on a session row.
func (gm *GameManager) MarkSessionStarted(sessionID int, startedAt time.Time) error {
	if gm == nil || gm.db == nil || sessionID == 0 {
		return nil
	}
	_, err := gm.db.Exec(`UPDATE game_sessions SET started_at=$1 WHERE id=$2 AND started_at IS NULL`, startedAt, sessionID)
	return err
}

// RecordShot stores a resolved shot with its launch and outcome as JSONB.
func (gm *GameManager) RecordShot(s *Session, r *ResolvedShot) {
	if gm == nil || gm.db == nil || s.ID == 0 || r == nil || r.Attempt == nil {
		return
	}

	result, err := json.Marshal(r.Outcome)
	if err != nil {
		log.Printf("[DB] Failed to marshal shot result for session %d: %v", s.ID, err)
		return
	}

	tx, err := gm.db.Beginx()
	if err != nil {
		log.Printf("[DB] Failed to begin shot tx for session %d: %v", s.ID, err)
		return
	}
	defer tx.Rollback()

	a := r.Attempt.Analysis
	_, err = tx.Exec(`
		INSERT INTO shots (session_id, player_id, sequence, shot_type, power, curve_amount, curve_direction,
			height_factor, outcome, saved, flight_time, result, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::jsonb,NOW())
		ON CONFLICT (session_id, sequence) DO NOTHING
	`, s.ID, s.PlayerID, r.Outcome.Sequence, r.Outcome.ShotType.String(), a.Power, a.CurveAmount, a.CurveDirection,
		a.HeightFactor, r.Outcome.Outcome.String(), r.Outcome.Saved, r.Outcome.FlightTime, string(result))
	if err != nil {
		log.Printf("[DB] Failed to record shot #%d for session %d: %v", r.Outcome.Sequence, s.ID, err)
		return
	}

	if _, err := tx.Exec(`UPDATE game_sessions SET score=$1, attempts=$2 WHERE id=$3`, r.Score, s.attempts(), s.ID); err != nil {
		log.Printf("[DB] Failed to update session %d counters: %v", s.ID, err)
		return
	}
	if err := accounts.RecordShot(tx, s.PlayerID, r.Outcome.Outcome == shot.OutcomeScored); err != nil {
		log.Printf("[DB] Failed to update player %d stats: %v", s.PlayerID, err)
		return
	}
	if err := tx.Commit(); err != nil {
		log.Printf("[DB] Failed to commit shot for session %d: %v", s.ID, err)
	}
}

// SaveFinalSession writes the final status of a session and the player's totals.
func (gm *GameManager) SaveFinalSession(snap SessionSnapshot) {
	if gm == nil || gm.db == nil || snap.ID == 0 {
		return
	}

	completed := time.Now()
	if snap.CompletedAt != nil {
		completed = *snap.CompletedAt
	}
	_, err := gm.db.Exec(`
		UPDATE game_sessions SET status=$1, score=$2, attempts=$3, completed_at=$4 WHERE id=$5
	`, string(snap.Status), snap.Score, snap.Attempts, completed, snap.ID)
	if err != nil {
		log.Printf("[DB] Failed to save final session %d: %v", snap.ID, err)
	}

	if err := accounts.RecordSessionEnd(gm.db, snap.PlayerID, snap.Score); err != nil {
		log.Printf("[DB] Failed to update player %d totals: %v", snap.PlayerID, err)
	}
}

// saveSessionToRedis stores the session snapshot.
func (gm *GameManager) saveSessionToRedis(snap SessionSnapshot) error {
	if gm.rdb == nil {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return gm.rdb.SetEx(context.Background(), sessionStateKey(snap.Token), data, gm.sessionTTL()).Err()
}

// loadSessionSummary reads the last snapshot of a session from Redis.
func (gm *GameManager) loadSessionSummary(token string) (*SessionSnapshot, error) {
	if gm.rdb == nil {
		return nil, ErrSessionNotFound
	}

	data, err := gm.rdb.Get(context.Background(), sessionStateKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", token, err)
	}

	var snap SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", token, err)
	}
	return &snap, nil
}

func (s *Session) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Attempts
}
