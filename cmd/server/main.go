package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/swipekick/backend/internal/api"
	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/database"
	"github.com/swipekick/backend/internal/game"
	"github.com/swipekick/backend/internal/migrations"
	"github.com/swipekick/backend/internal/redis"
	"github.com/swipekick/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if _, err := cfg.ShotConfig(); err != nil {
		log.Fatalf("Invalid shot configuration: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL, cfg.DatabaseOptions())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game.InitializeManager(db, rdb, cfg)
	game.Manager.SetNotifier(ws.SessionHub)

	// Events from every instance reach the sockets held here
	ws.SetRedisClient(rdb)
	ws.StartSessionEventSubscriber(ctx)

	game.StartSimulationWorker(ctx, cfg.SimulationHz)
	game.StartIdleWorker(ctx, rdb, cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, db, rdb, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting SwipeKick server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Persist what is still in flight so scores are not lost
	for _, s := range game.Manager.ActiveSessions() {
		if _, err := game.Manager.EndSession(s.Token, game.StatusExpired); err != nil {
			log.Printf("[SESSION] Failed to close %s on shutdown: %v", s.Token, err)
		}
	}
}
