package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/game"
)

// GetConfig returns the shot tuning the frontend needs to render the pitch.
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			sc  interface{}
			err error
		)
		if game.Manager != nil {
			sc, err = game.Manager.ShotConfig()
		} else {
			sc, err = cfg.ShotConfig()
		}
		if err != nil {
			log.Printf("[CONFIG] Shot config invalid: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "shot config invalid"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"shot":              sc,
			"max_fails":         cfg.SessionMaxFails,
			"simulation_hz":     cfg.SimulationHz,
			"keeper_enabled":    cfg.KeeperEnabled,
			"idle_timeout_secs": cfg.SessionIdleSeconds,
		})
	}
}
