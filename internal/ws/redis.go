package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/game"
)

var rdbClient *redis.Client

func SetRedisClient(r *redis.Client) {
	rdbClient = r
}

// StartSessionEventSubscriber forwards session events published by any
// instance to the sockets held here.
func StartSessionEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; session event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.SessionEventsChannel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		log.Printf("[WS] %s subscriber started", game.SessionEventsChannel)
		for msg := range ch {
			dispatchEvent(SessionHub, []byte(msg.Payload))
		}
		log.Printf("[WS] %s subscriber stopped", game.SessionEventsChannel)
	}()
}

// dispatchEvent relays one published event to its session room.
func dispatchEvent(h *Hub, payload []byte) {
	var ev game.SessionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}
	if ev.SessionToken == "" {
		log.Printf("[WS] event %s without session token", ev.Type)
		return
	}

	switch ev.Type {
	case "session_state", "shot_outcome", "game_over", "session_expired":
		if h.RoomSize(ev.SessionToken) == 0 {
			return
		}
		h.BroadcastToSession(ev.SessionToken, OutMessage{Type: ev.Type, Data: ev.Data})
	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}
