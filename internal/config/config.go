package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/swipekick/backend/internal/database"
	"github.com/swipekick/backend/internal/geom"
	"github.com/swipekick/backend/internal/shot"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	MigrateOnStart bool
	MigrationsPath string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Sessions
	SessionMaxFails        int
	SessionIdleSeconds     int
	IdleWorkerPollInterval int
	SessionTTLMinutes      int
	SimulationHz           int
	PhysicsSubsteps        int
	TrajectorySampleEvery  int
	KeeperEnabled          bool

	// Security
	JWTSecret      string
	TokenTTLHours  int
	GuestRateLimit int // guest tokens per IP per minute

	// Shot tuning, applied on top of shot.DefaultConfig
	Shot ShotSettings
}

// ShotSettings mirrors the env-tunable subset of shot.Config.
type ShotSettings struct {
	Gravity          float64
	LaunchHeight     float64
	GoalWidth        float64
	GoalHeight       float64
	GoalZ            float64
	TargetDepth      float64
	MinSpeed         float64
	MaxSpeed         float64
	ChipMaxSpeed     float64
	NormalMaxSpeed   float64
	CurveThreshold   float64
	SpinStrength     float64
	CurveForceScale  float64
	CurveLifetime    float64
	ShotTimeout      float64
	ResetDelay       float64
	ScreenHeight     float64
	MaxOutwardOffset float64
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	d := shot.DefaultConfig()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/swipekick?sslmode=disable"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Sessions
		SessionMaxFails:        getEnvInt("SESSION_MAX_FAILS", 3),
		SessionIdleSeconds:     getEnvInt("SESSION_IDLE_SECONDS", 300),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 15),
		SessionTTLMinutes:      getEnvInt("SESSION_TTL_MINUTES", 60),
		SimulationHz:           getEnvInt("SIMULATION_HZ", 60),
		PhysicsSubsteps:        getEnvInt("PHYSICS_SUBSTEPS", 4),
		TrajectorySampleEvery:  getEnvInt("TRAJECTORY_SAMPLE_EVERY", 8),
		KeeperEnabled:          getEnvBool("SESSION_KEEPER_ENABLED", false),

		// Security
		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLHours:  getEnvInt("TOKEN_TTL_HOURS", 72),
		GuestRateLimit: getEnvInt("GUEST_RATE_LIMIT_PER_MINUTE", 10),

		Shot: ShotSettings{
			Gravity:          getEnvFloat("SHOT_GRAVITY", d.Gravity),
			LaunchHeight:     getEnvFloat("SHOT_LAUNCH_HEIGHT", d.LaunchPosition.Y),
			GoalWidth:        getEnvFloat("SHOT_GOAL_WIDTH", d.GoalWidth),
			GoalHeight:       getEnvFloat("SHOT_GOAL_HEIGHT", d.GoalHeight),
			GoalZ:            getEnvFloat("SHOT_GOAL_Z", d.GoalZ),
			TargetDepth:      getEnvFloat("SHOT_TARGET_DEPTH", d.TargetDepthOverride),
			MinSpeed:         getEnvFloat("SHOT_MIN_SPEED", d.MinSpeed),
			MaxSpeed:         getEnvFloat("SHOT_MAX_SPEED", d.MaxSpeed),
			ChipMaxSpeed:     getEnvFloat("SHOT_CHIP_MAX_SPEED", d.ChipMaxSpeed),
			NormalMaxSpeed:   getEnvFloat("SHOT_NORMAL_MAX_SPEED", d.NormalMaxSpeed),
			CurveThreshold:   getEnvFloat("SHOT_CURVE_THRESHOLD", d.CurveThreshold),
			SpinStrength:     getEnvFloat("SHOT_SPIN_STRENGTH", d.SpinStrength),
			CurveForceScale:  getEnvFloat("SHOT_CURVE_FORCE_SCALE", d.CurveForceScale),
			CurveLifetime:    getEnvFloat("SHOT_CURVE_LIFETIME_SECONDS", d.CurveLifetime),
			ShotTimeout:      getEnvFloat("SHOT_TIMEOUT_SECONDS", d.ShotTimeout),
			ResetDelay:       getEnvFloat("SHOT_RESET_DELAY_SECONDS", d.ResetDelay),
			ScreenHeight:     getEnvFloat("SHOT_SCREEN_HEIGHT", d.ScreenHeight),
			MaxOutwardOffset: getEnvFloat("SHOT_MAX_OUTWARD_OFFSET", d.MaxOutwardOffset),
		},
	}
}

// DatabaseOptions returns the pool settings for database.Connect.
func (c *Config) DatabaseOptions() database.Options {
	return database.Options{MaxOpenConns: c.DBMaxOpenConns, MaxIdleConns: c.DBMaxIdleConns}
}

// IsProduction reports whether verbose shot logging should be suppressed.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ShotConfig builds the pipeline configuration and validates it.
func (c *Config) ShotConfig() (shot.Config, error) {
	sc := shot.DefaultConfig()
	s := c.Shot

	sc.Gravity = s.Gravity
	sc.LaunchPosition = geom.NewVec3(sc.LaunchPosition.X, s.LaunchHeight, sc.LaunchPosition.Z)
	sc.GoalWidth = s.GoalWidth
	sc.GoalHeight = s.GoalHeight
	sc.GoalZ = s.GoalZ
	sc.TargetDepthOverride = s.TargetDepth
	sc.MinSpeed = s.MinSpeed
	sc.MaxSpeed = s.MaxSpeed
	sc.ChipMaxSpeed = s.ChipMaxSpeed
	sc.NormalMaxSpeed = s.NormalMaxSpeed
	sc.CurveThreshold = s.CurveThreshold
	sc.SpinStrength = s.SpinStrength
	sc.CurveForceScale = s.CurveForceScale
	sc.CurveLifetime = s.CurveLifetime
	sc.ShotTimeout = s.ShotTimeout
	sc.ResetDelay = s.ResetDelay
	sc.ScreenHeight = s.ScreenHeight
	sc.MaxOutwardOffset = s.MaxOutwardOffset

	if err := sc.Validate(); err != nil {
		return shot.Config{}, fmt.Errorf("invalid shot config: %w", err)
	}
	return sc, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
