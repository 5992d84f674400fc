package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/swipekick/backend/internal/ws"
)

// HandleSessionWebSocket upgrades to the real-time shot stream of a session.
func HandleSessionWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
