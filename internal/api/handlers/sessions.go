package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/swipekick/backend/internal/accounts"
	"github.com/swipekick/backend/internal/game"
	"github.com/swipekick/backend/internal/shot"
)

// CreateSession starts a new shootout for the authenticated player.
func CreateSession(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !managerReady(c) {
			return
		}
		pid := c.GetInt("player_id")

		name := ""
		if db != nil {
			player, err := accounts.GetPlayer(db, pid)
			if err != nil {
				if errors.Is(err, accounts.ErrPlayerNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
					return
				}
				log.Printf("[SESSION] Failed to load player %d: %v", pid, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
			if player.IsBlocked {
				c.JSON(http.StatusForbidden, gin.H{"error": "player blocked"})
				return
			}
			name = player.DisplayName
		}

		s, err := game.Manager.CreateSession(pid, name)
		if err != nil {
			log.Printf("[SESSION] Failed to create session for player %d: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session": s.Snapshot(),
			"ws_url":  "/api/v1/sessions/" + s.Token + "/ws",
		})
	}
}

// GetSession returns the current or final state of a session.
func GetSession(c *gin.Context) {
	if !managerReady(c) {
		return
	}
	snap, err := game.Manager.GetSessionSnapshot(c.Param("token"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if snap.PlayerID != c.GetInt("player_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": game.ErrNotSessionOwner.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap})
}

// maxSwipeBytes matches the socket read limit.
const maxSwipeBytes = 64 << 10

// TakeShot launches a swipe and simulates it to its outcome before replying.
// Invalid gestures are rejected with the classifier analysis attached.
func TakeShot(c *gin.Context) {
	if !managerReady(c) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSwipeBytes)
	var swipe shot.SwipeData
	if err := c.ShouldBindJSON(&swipe); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "swipe too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid swipe"})
		return
	}

	token := c.Param("token")
	attempt, resolved, err := game.Manager.Shoot(token, c.GetInt("player_id"), swipe)
	if err != nil {
		if errors.Is(err, game.ErrShotUnresolved) {
			log.Printf("[SESSION] %s: %v", token, err)
		}
		resp := gin.H{"error": err.Error()}
		if attempt != nil {
			resp["analysis"] = attempt.Analysis
		}
		c.JSON(statusFor(err), resp)
		return
	}

	snap, _ := game.Manager.GetSessionSnapshot(token)
	c.JSON(http.StatusOK, gin.H{
		"attempt": attempt,
		"shot":    resolved,
		"session": snap,
	})
}

// ContinueSession dismisses the miss prompt so the next swipe is accepted.
func ContinueSession(c *gin.Context) {
	if !managerReady(c) {
		return
	}
	snap, err := game.Manager.Continue(c.Param("token"), c.GetInt("player_id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap})
}

// AbandonSession ends a session early; its score still counts.
func AbandonSession(c *gin.Context) {
	if !managerReady(c) {
		return
	}
	snap, err := game.Manager.Abandon(c.Param("token"), c.GetInt("player_id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": snap})
}

// GetLeaderboard returns the best finished-session scores.
func GetLeaderboard(c *gin.Context) {
	if !managerReady(c) {
		return
	}
	limit := parseLimit(c, "limit", 10, 100)
	entries, err := game.Manager.TopScores(limit)
	if err != nil {
		log.Printf("[LEADERBOARD] Failed to read top scores: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
		return
	}
	if entries == nil {
		entries = []game.LeaderboardEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
