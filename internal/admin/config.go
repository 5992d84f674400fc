package admin

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/swipekick/backend/internal/models"
	"github.com/swipekick/backend/internal/shot"
)

// shotFields maps runtime_config keys onto shot.Config fields.
var shotFields = map[string]func(*shot.Config) *float64{
	"gravity":              func(c *shot.Config) *float64 { return &c.Gravity },
	"launch_height":        func(c *shot.Config) *float64 { return &c.LaunchPosition.Y },
	"goal_width":           func(c *shot.Config) *float64 { return &c.GoalWidth },
	"goal_height":          func(c *shot.Config) *float64 { return &c.GoalHeight },
	"goal_z":               func(c *shot.Config) *float64 { return &c.GoalZ },
	"target_depth":         func(c *shot.Config) *float64 { return &c.TargetDepthOverride },
	"target_margin_x":      func(c *shot.Config) *float64 { return &c.TargetMarginX },
	"max_outward_offset":   func(c *shot.Config) *float64 { return &c.MaxOutwardOffset },
	"min_speed":            func(c *shot.Config) *float64 { return &c.MinSpeed },
	"max_speed":            func(c *shot.Config) *float64 { return &c.MaxSpeed },
	"chip_max_speed":       func(c *shot.Config) *float64 { return &c.ChipMaxSpeed },
	"normal_max_speed":     func(c *shot.Config) *float64 { return &c.NormalMaxSpeed },
	"curve_threshold":      func(c *shot.Config) *float64 { return &c.CurveThreshold },
	"curve_normalizer":     func(c *shot.Config) *float64 { return &c.CurveNormalizer },
	"screen_height":        func(c *shot.Config) *float64 { return &c.ScreenHeight },
	"height_bias":          func(c *shot.Config) *float64 { return &c.HeightBias },
	"spin_strength":        func(c *shot.Config) *float64 { return &c.SpinStrength },
	"backspin_ratio":       func(c *shot.Config) *float64 { return &c.BackspinRatio },
	"curve_force_scale":    func(c *shot.Config) *float64 { return &c.CurveForceScale },
	"curve_decay_window":   func(c *shot.Config) *float64 { return &c.CurveDecayWindow },
	"curve_lifetime":       func(c *shot.Config) *float64 { return &c.CurveLifetime },
	"shot_timeout_seconds": func(c *shot.Config) *float64 { return &c.ShotTimeout },
	"reset_delay_seconds":  func(c *shot.Config) *float64 { return &c.ResetDelay },
}

// IsShotKey reports whether key tunes the shot pipeline.
func IsShotKey(key string) bool {
	if _, ok := shotFields[key]; ok {
		return true
	}
	_, _, ok := parseWindowKey(key)
	return ok
}

// ShotKeys lists every pipeline key in a stable order.
func ShotKeys() []string {
	keys := make([]string, 0, len(shotFields)+8)
	for k := range shotFields {
		keys = append(keys, k)
	}
	for _, t := range []shot.ShotType{shot.ShotChip, shot.ShotNormal, shot.ShotPower, shot.ShotCurve} {
		name := strings.ToLower(t.String())
		keys = append(keys, name+"_time_min", name+"_time_max")
	}
	sort.Strings(keys)
	return keys
}

// parseWindowKey understands "<type>_time_min" and "<type>_time_max".
func parseWindowKey(key string) (shot.ShotType, bool, bool) {
	var isMax bool
	var prefix string
	switch {
	case strings.HasSuffix(key, "_time_min"):
		prefix = strings.TrimSuffix(key, "_time_min")
	case strings.HasSuffix(key, "_time_max"):
		prefix = strings.TrimSuffix(key, "_time_max")
		isMax = true
	default:
		return shot.ShotInvalid, false, false
	}
	t, err := shot.ParseShotType(strings.ToUpper(prefix))
	if err != nil || t == shot.ShotInvalid {
		return shot.ShotInvalid, false, false
	}
	return t, isMax, true
}

// ApplyShotOverrides applies runtime overrides onto sc and validates the
// result. Keys that do not tune the pipeline are ignored. On any error sc is
// left untouched. It returns the number of overrides applied.
func ApplyShotOverrides(values map[string]string, sc *shot.Config) (int, error) {
	next := sc.Clone()
	applied := 0

	for key, raw := range values {
		field, isField := shotFields[key]
		t, isMax, isWindow := parseWindowKey(key)
		if !isField && !isWindow {
			continue
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("runtime config %s: invalid float value %q", key, raw)
		}

		if isField {
			*field(&next) = v
		} else {
			w := next.Window(t)
			if isMax {
				w.Max = v
			} else {
				w.Min = v
			}
			next.ShotTimes[t] = w
		}
		applied++
	}

	if err := next.Validate(); err != nil {
		return 0, fmt.Errorf("runtime config rejected: %w", err)
	}
	*sc = next
	return applied, nil
}

// LoadShotOverrides reads runtime_config and applies the pipeline keys to sc.
func LoadShotOverrides(db *sqlx.DB, sc *shot.Config) error {
	if db == nil {
		return nil
	}
	configs, err := GetAllRuntimeConfig(db)
	if err != nil {
		return err
	}
	values := make(map[string]string, len(configs))
	for _, c := range configs {
		values[c.Key] = c.Value
	}
	n, err := ApplyShotOverrides(values, sc)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("[CONFIG] Applied %d shot overrides from runtime_config", n)
	}
	return nil
}

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	var configs []models.RuntimeConfig
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateValue checks value against a runtime_config value_type.
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
	case "float":
		if v, err := strconv.ParseFloat(value, 64); err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// UpdateRuntimeConfigValue validates and stores a value. Pipeline keys are
// created on first write and must leave the pipeline config valid.
func UpdateRuntimeConfigValue(db *sqlx.DB, key, value, adminUsername string, base shot.Config) error {
	valueType := "float"
	existing, err := GetRuntimeConfigValue(db, key)
	switch {
	case err == nil:
		valueType = existing.ValueType
	case !IsShotKey(key):
		return fmt.Errorf("config key not found: %s", key)
	}

	if err := ValidateValue(valueType, value); err != nil {
		return err
	}

	if IsShotKey(key) {
		candidate := base.Clone()
		if err := LoadShotOverrides(db, &candidate); err != nil {
			log.Printf("[ADMIN] Existing overrides invalid, validating %s against defaults: %v", key, err)
			candidate = base.Clone()
		}
		if _, err := ApplyShotOverrides(map[string]string{key: value}, &candidate); err != nil {
			return err
		}
	}

	_, err = db.Exec(`
		INSERT INTO runtime_config (key, value, value_type, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_by=EXCLUDED.updated_by, updated_at=NOW()
	`, key, value, valueType, adminUsername)
	return err
}
