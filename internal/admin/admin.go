package admin

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/swipekick/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminNotFound = errors.New("admin account not found")
	ErrInvalidToken  = errors.New("invalid token")
)

// GetAdminAccount retrieves an active admin account by username
func GetAdminAccount(db *sqlx.DB, username string) (*models.AdminAccount, error) {
	var acc models.AdminAccount
	err := db.Get(&acc, `SELECT id, username, token_hash, roles, is_active, created_at FROM admin_accounts WHERE username=$1 AND is_active`, username)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// VerifyAdminToken checks if the provided token matches the stored hash
func VerifyAdminToken(hashedToken, plainToken string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// HashAdminToken hashes a plain token for storage.
func HashAdminToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// CreateAdminAccount creates or replaces an admin account (used for seeding)
func CreateAdminAccount(db *sqlx.DB, username, plainToken string, roles []string) error {
	hashedToken, err := HashAdminToken(plainToken)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO admin_accounts (username, token_hash, roles, is_active, created_at)
		VALUES ($1, $2, $3, TRUE, NOW())
		ON CONFLICT (username) DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			roles = EXCLUDED.roles,
			is_active = TRUE
	`, username, hashedToken, pq.Array(roles))

	return err
}

// ValidateAdminCredentials validates a username + token combination
func ValidateAdminCredentials(db *sqlx.DB, username, token string) (*models.AdminAccount, error) {
	acc, err := GetAdminAccount(db, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("[ADMIN] No admin account found for: %s", username)
			return nil, ErrAdminNotFound
		}
		log.Printf("[ADMIN] Database error: %v", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !VerifyAdminToken(acc.TokenHash, token) {
		log.Printf("[ADMIN] Token verification failed for: %s", username)
		return nil, ErrInvalidToken
	}
	return acc, nil
}

// HasRole reports whether acc carries role or the wildcard "superadmin".
func HasRole(acc *models.AdminAccount, role string) bool {
	if acc == nil {
		return false
	}
	for _, r := range acc.Roles {
		if r == role || r == "superadmin" {
			return true
		}
	}
	return false
}

// LogAdminAction records an admin action in the audit log
func LogAdminAction(db *sqlx.DB, username, ip, route, action string, details map[string]interface{}) error {
	if db == nil {
		return nil
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.Exec(`
		INSERT INTO admin_audit_log (username, ip, route, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, username, ip, route, action, detailsJSON)
	if err != nil {
		log.Printf("[ADMIN] Failed to log admin action: %v", err)
	}
	return err
}

// GetAdminAuditLogs retrieves recent admin audit logs with pagination
func GetAdminAuditLogs(db *sqlx.DB, limit, offset int) ([]models.AdminAuditLog, error) {
	var logs []models.AdminAuditLog
	err := db.Select(&logs, `
		SELECT id, username, ip, route, action, details, created_at
		FROM admin_audit_log
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return logs, err
}
