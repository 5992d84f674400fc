package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/swipekick/backend/internal/game"
	"github.com/swipekick/backend/internal/shot"
)

// generateID generates a random alphanumeric ID
func generateID(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}

// parseLimit reads a positive integer query param, clamped to max.
func parseLimit(c *gin.Context, name string, def, max int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// statusFor maps session and shot errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrNotSessionOwner):
		return http.StatusForbidden
	case errors.Is(err, game.ErrSessionOver),
		errors.Is(err, game.ErrAwaitingContinue),
		errors.Is(err, shot.ErrShotInProgress):
		return http.StatusConflict
	case errors.Is(err, shot.ErrTooManyPoints):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, shot.ErrInsufficientInput),
		errors.Is(err, shot.ErrInvalidShot):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// managerReady aborts with 503 when the session manager is not initialised.
func managerReady(c *gin.Context) bool {
	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not initialized"})
		return false
	}
	return true
}
