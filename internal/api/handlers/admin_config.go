package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/swipekick/backend/internal/admin"
	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/game"
)

// GetAdminRuntimeConfig returns stored overrides, the tunable keys and the
// shot config new sessions will get.
func GetAdminRuntimeConfig(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := admin.GetAllRuntimeConfig(db)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch runtime config: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch config"})
			return
		}

		resp := gin.H{"configs": configs, "shot_keys": admin.ShotKeys()}
		if game.Manager != nil {
			if sc, err := game.Manager.ShotConfig(); err == nil {
				resp["effective"] = sc
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateAdminRuntimeConfig updates a single runtime config value. Sessions
// created afterwards pick it up; running sessions keep their config.
func UpdateAdminRuntimeConfig(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUsername := c.GetString("admin_username")
		key := c.Param("key")

		var req struct {
			Value string `json:"value" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
			return
		}

		base, err := cfg.ShotConfig()
		if err != nil {
			log.Printf("[ADMIN] Base shot config invalid: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Base shot config invalid"})
			return
		}

		details := map[string]interface{}{"key": key, "value": req.Value}
		if err := admin.UpdateRuntimeConfigValue(db, key, req.Value, adminUsername, base); err != nil {
			log.Printf("[ADMIN] Failed to update config %s: %v", key, err)
			details["error"] = err.Error()
			admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/config/"+key, "update_config_rejected", details)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/config/"+key, "update_config", details)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
