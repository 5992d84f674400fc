package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swipekick/backend/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(c *gin.Context) {
	active := 0
	if game.Manager != nil {
		active = game.Manager.GetActiveSessionCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"service":         "swipekick-api",
		"version":         version,
		"uptime":          time.Since(startTime).String(),
		"active_sessions": active,
	})
}
