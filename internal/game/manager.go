package game

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/admin"
	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/shot"
)

// Notifier delivers session messages to connected clients.
type Notifier interface {
	NotifySession(token, msgType string, payload interface{})
}

// GameManager manages all active sessions
type GameManager struct {
	sessions map[string]*Session // keyed by session token
	rdb      *redis.Client       // Redis client for state, leaderboard and events
	db       *sqlx.DB            // SQL DB for persistent records
	config   *config.Config      // Application config
	notifier Notifier
	board    *memoryBoard // leaderboard when Redis is not configured
	mu       sync.RWMutex
}

var (
	// Global game manager instance
	Manager *GameManager
)

// InitializeManager initializes the global game manager with Redis, DB and config
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
}

// NewGameManager creates a new game manager. db, rdb and cfg may be nil.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	return &GameManager{
		sessions: make(map[string]*Session),
		rdb:      rdb,
		db:       db,
		config:   cfg,
		board:    newMemoryBoard(),
	}
}

// SetNotifier registers the transport that receives session messages.
func (gm *GameManager) SetNotifier(n Notifier) {
	gm.mu.Lock()
	gm.notifier = n
	gm.mu.Unlock()
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (gm *GameManager) sessionOptions() SessionOptions {
	if gm.config == nil {
		return SessionOptions{}
	}
	return SessionOptions{
		MaxFails:     gm.config.SessionMaxFails,
		SimulationHz: gm.config.SimulationHz,
		Substeps:     gm.config.PhysicsSubsteps,
		SampleEvery:  gm.config.TrajectorySampleEvery,
		Keeper:       gm.config.KeeperEnabled,
	}
}

// ShotConfig returns the env config with runtime overrides applied.
func (gm *GameManager) ShotConfig() (shot.Config, error) {
	sc := shot.DefaultConfig()
	if gm.config != nil {
		var err error
		if sc, err = gm.config.ShotConfig(); err != nil {
			return shot.Config{}, err
		}
	}
	if err := admin.LoadShotOverrides(gm.db, &sc); err != nil {
		log.Printf("[CONFIG] Ignoring runtime overrides: %v", err)
		if gm.config != nil {
			sc, _ = gm.config.ShotConfig()
		} else {
			sc = shot.DefaultConfig()
		}
	}
	return sc, nil
}

// CreateSession starts a new run for a player.
func (gm *GameManager) CreateSession(playerID int, playerName string) (*Session, error) {
	sc, err := gm.ShotConfig()
	if err != nil {
		return nil, err
	}

	s := NewSession(generateToken(16), playerID, playerName, sc, gm.sessionOptions())

	if id, err := gm.insertSession(s); err != nil {
		log.Printf("[DB] Failed to insert session for player %d: %v", playerID, err)
	} else {
		s.ID = id
	}
	now := time.Now()
	s.MarkStarted(now)
	if s.ID > 0 {
		if err := gm.MarkSessionStarted(s.ID, now); err != nil {
			log.Printf("[DB] MarkSessionStarted failed for session %d: %v", s.ID, err)
		}
	}

	gm.mu.Lock()
	gm.sessions[s.Token] = s
	gm.mu.Unlock()

	snap := s.Snapshot()
	if err := gm.saveSessionToRedis(snap); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", s.Token, err)
	}
	gm.touchIdle(s.Token)
	gm.publish(s.Token, "session_state", snap)

	log.Printf("[SESSION] Created %s for player %d (max_fails=%d)", s.Token, playerID, s.MaxFails)
	return s, nil
}

// GetSession returns an in-memory session by token.
func (gm *GameManager) GetSession(token string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetSessionSnapshot returns a live snapshot or the last one stored in Redis.
func (gm *GameManager) GetSessionSnapshot(token string) (*SessionSnapshot, error) {
	if s, err := gm.GetSession(token); err == nil {
		snap := s.Snapshot()
		return &snap, nil
	}
	return gm.loadSessionSummary(token)
}

// ownedSession resolves token and checks that playerID owns it.
func (gm *GameManager) ownedSession(token string, playerID int) (*Session, error) {
	s, err := gm.GetSession(token)
	if err != nil {
		return nil, err
	}
	if s.PlayerID != playerID {
		return nil, ErrNotSessionOwner
	}
	return s, nil
}

// ActiveSessions returns every session held in memory.
func (gm *GameManager) ActiveSessions() []*Session {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	out := make([]*Session, 0, len(gm.sessions))
	for _, s := range gm.sessions {
		out = append(out, s)
	}
	return out
}

// GetActiveSessionCount returns the number of sessions in memory.
func (gm *GameManager) GetActiveSessionCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// Shoot runs a swipe synchronously: launch, simulate, outcome.
func (gm *GameManager) Shoot(token string, playerID int, swipe shot.SwipeData) (*shot.ShotAttempt, *ResolvedShot, error) {
	s, err := gm.ownedSession(token, playerID)
	if err != nil {
		return nil, nil, err
	}
	attempt, resolved, err := s.Shoot(swipe)
	gm.touchIdle(token)
	if err != nil {
		return attempt, nil, err
	}
	gm.handleResolved(s, resolved)
	return attempt, resolved, nil
}

// TakeShot launches a swipe for real-time play; the simulation worker
// resolves it.
func (gm *GameManager) TakeShot(token string, playerID int, swipe shot.SwipeData) (*shot.ShotAttempt, error) {
	s, err := gm.ownedSession(token, playerID)
	if err != nil {
		return nil, err
	}
	attempt, err := s.TakeShot(swipe)
	gm.touchIdle(token)
	return attempt, err
}

// Continue dismisses the miss prompt of a session.
func (gm *GameManager) Continue(token string, playerID int) (*SessionSnapshot, error) {
	s, err := gm.ownedSession(token, playerID)
	if err != nil {
		return nil, err
	}
	if err := s.Continue(); err != nil {
		return nil, err
	}
	gm.touchIdle(token)
	snap := s.Snapshot()
	if err := gm.saveSessionToRedis(snap); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", token, err)
	}
	return &snap, nil
}

// Abandon ends a session at the player's request.
func (gm *GameManager) Abandon(token string, playerID int) (*SessionSnapshot, error) {
	if _, err := gm.ownedSession(token, playerID); err != nil {
		return nil, err
	}
	return gm.EndSession(token, StatusGameOver)
}

// handleResolved persists an outcome and tells listeners about it.
func (gm *GameManager) handleResolved(s *Session, r *ResolvedShot) {
	gm.RecordShot(s, r)

	snap := s.Snapshot()
	if err := gm.saveSessionToRedis(snap); err != nil {
		log.Printf("[REDIS] Failed to save session %s: %v", s.Token, err)
	}

	gm.publish(s.Token, "shot_outcome", r)
	log.Printf("[SESSION] %s shot #%d %s %s (score=%d fails=%d/%d)",
		s.Token, r.Outcome.Sequence, r.Outcome.ShotType, r.Outcome.Outcome, r.Score, r.ConsecutiveFails, s.MaxFails)

	if r.GameOver {
		gm.finalize(s)
		gm.publish(s.Token, "game_over", s.Snapshot())
	}
}

// EndSession finishes a session with status, persists it and drops it from
// memory. Sessions already over are finalised as they are.
func (gm *GameManager) EndSession(token string, status SessionStatus) (*SessionSnapshot, error) {
	s, err := gm.GetSession(token)
	if err != nil {
		return nil, err
	}
	s.Finish(status)
	gm.finalize(s)

	snap := s.Snapshot()
	switch snap.Status {
	case StatusExpired:
		gm.publish(token, "session_expired", snap)
	default:
		gm.publish(token, "game_over", snap)
	}
	return &snap, nil
}

// finalize writes the final state once and removes the session from memory.
func (gm *GameManager) finalize(s *Session) {
	gm.mu.Lock()
	_, live := gm.sessions[s.Token]
	delete(gm.sessions, s.Token)
	gm.mu.Unlock()
	if !live {
		return
	}

	snap := s.Snapshot()
	gm.SaveFinalSession(snap)
	gm.SubmitScore(snap)
	gm.clearIdle(s.Token)
	if err := gm.saveSessionToRedis(snap); err != nil {
		log.Printf("[REDIS] Failed to save final session %s: %v", s.Token, err)
	}
	log.Printf("[SESSION] %s ended %s score=%d attempts=%d", s.Token, snap.Status, snap.Score, snap.Attempts)
}
