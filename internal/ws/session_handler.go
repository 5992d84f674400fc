package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/swipekick/backend/internal/game"
	"github.com/swipekick/backend/internal/shot"
)

// SessionHub is the single hub for all session sockets.
var SessionHub *Hub

func init() {
	SessionHub = NewHub()
	go SessionHub.Run()
}

// ShotRejected explains why a swipe did not launch.
type ShotRejected struct {
	Reason   string             `json:"reason"`
	Analysis *shot.ShotAnalysis `json:"analysis,omitempty"`
}

// HandleWebSocket upgrades a player's connection to a session stream. The
// player id is set by the auth middleware.
func HandleWebSocket(c *gin.Context) {
	token := c.Param("token")
	playerID := c.GetInt("player_id")

	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions unavailable"})
		return
	}
	s, err := game.Manager.GetSession(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if s.PlayerID != playerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:          SessionHub,
		conn:         conn,
		playerID:     playerID,
		sessionToken: token,
		send:         make(chan []byte, 256),
	}
	SessionHub.register <- client

	client.sendJSON(OutMessage{Type: "session_state", Data: s.Snapshot()})

	go client.writePump()
	go client.readPump()
}

// readPump reads swipes and control messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 << 10)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for player %d: %v", c.playerID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage processes incoming session messages.
func (c *Client) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "swipe":
		var swipe shot.SwipeData
		if err := json.Unmarshal(msg.Data, &swipe); err != nil {
			c.sendError("Invalid swipe data")
			return
		}
		c.handleSwipe(swipe)

	case "get_state":
		snap, err := game.Manager.GetSessionSnapshot(c.sessionToken)
		if err != nil {
			c.sendError("Session not found")
			return
		}
		c.sendJSON(OutMessage{Type: "session_state", Data: snap})

	case "continue":
		snap, err := game.Manager.Continue(c.sessionToken, c.playerID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.BroadcastToSession(c.sessionToken, OutMessage{Type: "session_state", Data: snap})

	default:
		c.sendError("Unknown message type")
	}
}

func (c *Client) handleSwipe(swipe shot.SwipeData) {
	attempt, err := game.Manager.TakeShot(c.sessionToken, c.playerID, swipe)
	switch {
	case err == nil:
		c.hub.BroadcastToSession(c.sessionToken, OutMessage{Type: "shot_launched", Data: attempt})
	case rejection(err):
		r := ShotRejected{Reason: err.Error()}
		if attempt != nil {
			r.Analysis = &attempt.Analysis
		}
		c.sendJSON(OutMessage{Type: "shot_rejected", Data: r})
	default:
		c.sendError(err.Error())
	}
}

// rejection reports whether err is a swipe the player can simply retry.
func rejection(err error) bool {
	return errors.Is(err, shot.ErrInvalidShot) ||
		errors.Is(err, shot.ErrInsufficientInput) ||
		errors.Is(err, shot.ErrShotInProgress) ||
		errors.Is(err, game.ErrAwaitingContinue)
}
