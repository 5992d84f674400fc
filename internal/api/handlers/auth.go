package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/accounts"
	"github.com/swipekick/backend/internal/config"
)

// IssueToken signs an HS256 player token.
func IssueToken(cfg *config.Config, playerID int, displayName string) (string, time.Time, error) {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"player_id": playerID,
		"name":      displayName,
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	return signed, exp, err
}

// ParsePlayerToken validates a player token and returns the player id.
func ParsePlayerToken(cfg *config.Config, token string) (int, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token")
	}
	playerIDf, ok := claims["player_id"].(float64)
	if !ok || playerIDf <= 0 {
		return 0, errors.New("invalid token")
	}
	return int(playerIDf), nil
}

// GuestLogin creates (or finds, by device id) a player and issues a token.
func GuestLogin(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			DisplayName string `json:"display_name"`
			DeviceID    string `json:"device_id"`
		}
		// An empty body is a nameless guest.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		// Rate limit per IP
		if rdb != nil && cfg.GuestRateLimit > 0 {
			ctx := context.Background()
			key := fmt.Sprintf("guest_rate:%s", c.ClientIP())
			n, err := rdb.Incr(ctx, key).Result()
			if err == nil && n == 1 {
				rdb.Expire(ctx, key, time.Minute)
			}
			if err == nil && n > int64(cfg.GuestRateLimit) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many guest logins"})
				return
			}
		}

		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "accounts unavailable"})
			return
		}

		name := accounts.CleanDisplayName(req.DisplayName, "Guest-"+generateID(5))
		player, err := accounts.GetOrCreatePlayer(db, strings.TrimSpace(req.DeviceID), name)
		if err != nil {
			if errors.Is(err, accounts.ErrPlayerBlocked) {
				c.JSON(http.StatusForbidden, gin.H{"error": "player blocked"})
				return
			}
			log.Printf("[AUTH] Failed to create guest: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		signed, exp, err := IssueToken(cfg, player.ID, player.DisplayName)
		if err != nil {
			log.Printf("[AUTH] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      signed,
			"expires_at": exp.Format(time.RFC3339),
			"player":     gin.H{"id": player.ID, "display_name": player.DisplayName},
		})
	}
}

// AuthMiddleware validates a bearer JWT and sets player_id in context.
// Browsers cannot set headers on a socket upgrade, so access_token is also
// accepted as a query parameter.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else {
			token = c.Query("access_token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		playerID, err := ParsePlayerToken(cfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("player_id", playerID)
		c.Next()
	}
}

// GetMe returns the authenticated player's profile and totals.
func GetMe(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pid := c.GetInt("player_id")
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"player": gin.H{"id": pid}})
			return
		}

		player, err := accounts.GetPlayer(db, pid)
		if err != nil {
			if errors.Is(err, accounts.ErrPlayerNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
				return
			}
			log.Printf("[AUTH] Failed to load player %d: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"player": player})
	}
}
