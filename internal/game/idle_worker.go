package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/config"
)

// StartIdleWorker starts a background worker that expires sessions nobody has
// touched for SESSION_IDLE_SECONDS. Deadlines live in the session_idle sorted
// set; without Redis the in-memory sessions are swept directly.
func StartIdleWorker(ctx context.Context, rdb *redis.Client, cfg *config.Config) {
	if Manager == nil || cfg == nil {
		log.Println("[IDLE] Manager or config missing; idle worker not started")
		return
	}

	interval := time.Duration(cfg.IdleWorkerPollInterval) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				if rdb == nil {
					if n := Manager.ExpireIdleSessions(time.Now()); n > 0 {
						log.Printf("[IDLE] Expired %d idle sessions", n)
					}
					continue
				}
				Manager.expireDueFromRedis(ctx, rdb)
			}
		}
	}()
}

func (gm *GameManager) expireDueFromRedis(ctx context.Context, rdb *redis.Client) {
	now := time.Now().Unix()
	members, err := rdb.ZRangeByScore(ctx, idleSetKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle sessions: %v", err)
		return
	}

	for _, token := range members {
		// Attempt to remove (race-safe)
		removed, _ := rdb.ZRem(ctx, idleSetKey, token).Result()
		if removed == 0 {
			continue
		}
		s, err := gm.GetSession(token)
		if err != nil {
			// held by another instance or already finished
			continue
		}
		if s.Busy() {
			gm.touchIdle(token)
			continue
		}
		log.Printf("[IDLE] Expiring session %s due to inactivity", token)
		if _, err := gm.EndSession(token, StatusExpired); err != nil {
			log.Printf("[IDLE] expire failed: session=%s err=%v", token, err)
		}
	}
}

// ExpireIdleSessions ends every in-memory session idle since before the
// timeout and returns how many were expired.
func (gm *GameManager) ExpireIdleSessions(now time.Time) int {
	cutoff := now.Add(-gm.idleTimeout())
	expired := 0
	for _, s := range gm.ActiveSessions() {
		snap := s.Snapshot()
		if snap.Status != StatusActive || snap.LastActivity.After(cutoff) || s.Busy() {
			continue
		}
		if _, err := gm.EndSession(s.Token, StatusExpired); err == nil {
			expired++
		}
	}
	return expired
}
