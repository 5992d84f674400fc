package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/swipekick/backend/internal/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerBlocked  = errors.New("player is blocked")
)

const playerColumns = `id, display_name, device_id, created_at, total_sessions, total_shots, total_goals, best_score, is_blocked, last_active`

// MaxDisplayNameLength matches players.display_name.
const MaxDisplayNameLength = 64

// CleanDisplayName trims name and falls back to a generated guest name.
func CleanDisplayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if r := []rune(name); len(r) > MaxDisplayNameLength {
		name = string(r[:MaxDisplayNameLength])
	}
	return name
}

// GetOrCreatePlayer returns the player bound to deviceID, creating it if
// missing. An empty deviceID always creates a fresh guest.
func GetOrCreatePlayer(db *sqlx.DB, deviceID, displayName string) (*models.Player, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	var p models.Player
	if deviceID != "" {
		err := db.Get(&p, `SELECT `+playerColumns+` FROM players WHERE device_id=$1`, deviceID)
		if err == nil {
			if p.IsBlocked {
				return nil, ErrPlayerBlocked
			}
			if displayName != "" && displayName != p.DisplayName {
				if _, err := db.Exec(`UPDATE players SET display_name=$1 WHERE id=$2`, displayName, p.ID); err != nil {
					log.Printf("[ACCOUNTS] Failed to rename player %d: %v", p.ID, err)
				} else {
					p.DisplayName = displayName
				}
			}
			return &p, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	device := sql.NullString{String: deviceID, Valid: deviceID != ""}
	err := db.Get(&p, `
		INSERT INTO players (display_name, device_id, created_at, last_active)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING `+playerColumns, displayName, device)
	if err != nil {
		return nil, err
	}
	log.Printf("[ACCOUNTS] Created player %d (%s)", p.ID, p.DisplayName)
	return &p, nil
}

// GetPlayer loads a player by id.
func GetPlayer(db *sqlx.DB, playerID int) (*models.Player, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	var p models.Player
	if err := db.Get(&p, `SELECT `+playerColumns+` FROM players WHERE id=$1`, playerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

// RecordShot bumps the player's shot counters within an existing tx.
func RecordShot(tx *sqlx.Tx, playerID int, scored bool) error {
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}
	goal := 0
	if scored {
		goal = 1
	}
	_, err := tx.Exec(`
		UPDATE players
		SET total_shots = total_shots + 1, total_goals = total_goals + $1, last_active = NOW()
		WHERE id = $2
	`, goal, playerID)
	return err
}

// RecordSessionEnd counts a finished session and keeps the best score.
func RecordSessionEnd(db *sqlx.DB, playerID, score int) error {
	if db == nil {
		return nil
	}
	_, err := db.Exec(`
		UPDATE players
		SET total_sessions = total_sessions + 1, best_score = GREATEST(best_score, $1), last_active = NOW()
		WHERE id = $2
	`, score, playerID)
	return err
}
