package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	playerID     int
	sessionToken string
	send         chan []byte
}

// Hub maintains the set of active clients grouped by session
type Hub struct {
	rooms      map[string]map[*Client]bool // session token -> clients
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			room, exists := h.rooms[client.sessionToken]
			if !exists {
				room = make(map[*Client]bool)
				h.rooms[client.sessionToken] = room
			}
			room[client] = true
			h.mu.Unlock()
			log.Printf("[WS] Player %d connected to session %s (room_size=%d)", client.playerID, client.sessionToken, len(room))

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.sessionToken]; ok && room[client] {
				delete(room, client)
				close(client.send)
				if len(room) == 0 {
					delete(h.rooms, client.sessionToken)
				}
				log.Printf("[WS] Player %d disconnected from session %s", client.playerID, client.sessionToken)
			}
			h.mu.Unlock()
		}
	}
}

// RoomSize returns the number of sockets watching a session.
func (h *Hub) RoomSize(token string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[token])
}

// BroadcastToSession sends a message to every socket of a session
func (h *Hub) BroadcastToSession(token string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[token] {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full
			log.Printf("[WS] Send buffer full for player %d in session %s, dropping message", client.playerID, token)
		}
	}
}

// NotifySession implements game.Notifier.
func (h *Hub) NotifySession(token, msgType string, payload interface{}) {
	h.BroadcastToSession(token, OutMessage{Type: msgType, Data: payload})
}

// WSMessage is an inbound client message
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// OutMessage is an outbound server message
type OutMessage struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Best-effort close frame; the conn may already be gone.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for player %d: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for player %d: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendJSON queues a message for this client only
func (c *Client) sendJSON(msg OutMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] dropped %s for player %d (buffer full)", msg.Type, c.playerID)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(OutMessage{Type: "error", Message: message})
}
