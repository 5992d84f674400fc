package game

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionEventsChannel carries session events between server instances.
const SessionEventsChannel = "session_events"

const idleSetKey = "session_idle"

// SessionEvent is the envelope published on SessionEventsChannel.
type SessionEvent struct {
	Type         string          `json:"type"`
	SessionToken string          `json:"session_token"`
	Data         json.RawMessage `json:"data"`
}

// publish sends an event through Redis so every instance holding a socket for
// the session sees it. Without Redis it goes straight to the local notifier.
func (gm *GameManager) publish(token, msgType string, payload interface{}) {
	if gm.rdb == nil {
		gm.notifyLocal(token, msgType, payload)
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[EVENTS] Failed to marshal %s for %s: %v", msgType, token, err)
		return
	}
	b, err := json.Marshal(SessionEvent{Type: msgType, SessionToken: token, Data: data})
	if err != nil {
		log.Printf("[EVENTS] Failed to marshal envelope %s for %s: %v", msgType, token, err)
		return
	}
	if err := gm.rdb.Publish(context.Background(), SessionEventsChannel, b).Err(); err != nil {
		log.Printf("[EVENTS] publish %s failed for %s: %v", msgType, token, err)
		gm.notifyLocal(token, msgType, payload)
	}
}

// notifyLocal delivers to sockets held by this instance only.
func (gm *GameManager) notifyLocal(token, msgType string, payload interface{}) {
	gm.mu.RLock()
	n := gm.notifier
	gm.mu.RUnlock()
	if n != nil {
		n.NotifySession(token, msgType, payload)
	}
}

func (gm *GameManager) idleTimeout() time.Duration {
	if gm.config == nil || gm.config.SessionIdleSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(gm.config.SessionIdleSeconds) * time.Second
}

// touchIdle pushes the session's idle deadline forward.
func (gm *GameManager) touchIdle(token string) {
	if gm.rdb == nil {
		return
	}
	deadline := time.Now().Add(gm.idleTimeout()).Unix()
	if err := gm.rdb.ZAdd(context.Background(), idleSetKey, redis.Z{Score: float64(deadline), Member: token}).Err(); err != nil {
		log.Printf("[IDLE] Failed to schedule idle check for %s: %v", token, err)
	}
}

func (gm *GameManager) clearIdle(token string) {
	if gm.rdb == nil {
		return
	}
	if err := gm.rdb.ZRem(context.Background(), idleSetKey, token).Err(); err != nil {
		log.Printf("[IDLE] Failed to clear idle check for %s: %v", token, err)
	}
}
