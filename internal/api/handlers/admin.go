package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/admin"
	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/game"
)

const adminSessionTTL = 4 * time.Hour
const adminCookieName = "admin_session"

type adminSession struct {
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	ExpiresAt int64    `json:"expires_at"`
}

// AdminLogin validates username + token and creates a session cookie
func AdminLogin(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Token    string `json:"token" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)
		adminAcc, err := admin.ValidateAdminCredentials(db, username, strings.TrimSpace(req.Token))
		if err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login_failed", nil)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		tokenBytes := make([]byte, 32)
		if _, err := rand.Read(tokenBytes); err != nil {
			log.Printf("[ADMIN] Failed to generate session token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}
		sessionToken := hex.EncodeToString(tokenBytes)

		sessionJSON, _ := json.Marshal(adminSession{
			Username:  adminAcc.Username,
			Roles:     adminAcc.Roles,
			ExpiresAt: time.Now().Add(adminSessionTTL).Unix(),
		})
		sessionKey := fmt.Sprintf("admin_session:%s", sessionToken)
		if err := rdb.Set(context.Background(), sessionKey, sessionJSON, adminSessionTTL).Err(); err != nil {
			log.Printf("[ADMIN] Failed to store session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
			return
		}

		// Set HTTP-only cookie
		secure := cfg.IsProduction()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookieName, sessionToken, int(adminSessionTTL.Seconds()), "/api/v1/admin", "", secure, true)

		admin.LogAdminAction(db, username, c.ClientIP(), "/api/v1/admin/login", "login", nil)
		c.JSON(http.StatusOK, gin.H{"ok": true, "username": adminAcc.Username, "roles": adminAcc.Roles})
	}
}

// AdminLogout clears admin session
func AdminLogout(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookieName)
		if err == nil && token != "" {
			rdb.Del(context.Background(), fmt.Sprintf("admin_session:%s", token))
		}

		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookieName, "", -1, "/api/v1/admin", "", false, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// AdminMe returns the current admin session info
func AdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString("admin_username"),
			"roles":    c.GetStringSlice("admin_roles"),
		})
	}
}

// AdminSessionMiddleware authenticates an admin from the session cookie, or
// from the X-Admin-Username / X-Admin-Token headers for scripted access.
func AdminSessionMiddleware(rdb *redis.Client, db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if username := c.GetHeader("X-Admin-Username"); username != "" {
			acc, err := admin.ValidateAdminCredentials(db, username, c.GetHeader("X-Admin-Token"))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.Set("admin_username", acc.Username)
			c.Set("admin_roles", []string(acc.Roles))
			c.Next()
			return
		}

		token, err := c.Cookie(adminCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		sessionJSON, err := rdb.Get(context.Background(), fmt.Sprintf("admin_session:%s", token)).Result()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		var sess adminSession
		if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil || sess.Username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}

		c.Set("admin_username", sess.Username)
		c.Set("admin_roles", sess.Roles)
		c.Next()
	}
}

// RequireAdminRole aborts unless the authenticated admin holds role.
func RequireAdminRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, r := range c.GetStringSlice("admin_roles") {
			if r == role || r == "superadmin" {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Missing role " + role})
	}
}

// GetAdminSessions lists the sessions currently held in memory.
func GetAdminSessions() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !managerReady(c) {
			return
		}
		sessions := game.Manager.ActiveSessions()
		snaps := make([]game.SessionSnapshot, 0, len(sessions))
		for _, s := range sessions {
			snaps = append(snaps, s.Snapshot())
		}
		c.JSON(http.StatusOK, gin.H{"sessions": snaps, "total": len(snaps)})
	}
}

// ExpireAdminSession force-expires a live session.
func ExpireAdminSession(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !managerReady(c) {
			return
		}
		adminUsername := c.GetString("admin_username")
		token := c.Param("token")

		snap, err := game.Manager.EndSession(token, game.StatusExpired)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		admin.LogAdminAction(db, adminUsername, c.ClientIP(), "/api/v1/admin/sessions/"+token+"/expire", "expire_session",
			map[string]interface{}{"session_token": token, "player_id": snap.PlayerID, "score": snap.Score})
		c.JSON(http.StatusOK, gin.H{"session": snap})
	}
}
