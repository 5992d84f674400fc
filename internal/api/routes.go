package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/swipekick/backend/internal/api/handlers"
	"github.com/swipekick/backend/internal/config"
	"github.com/swipekick/backend/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if !cfg.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	auth := handlers.AuthMiddleware(cfg)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))
		v1.GET("/leaderboard", handlers.GetLeaderboard)

		v1.POST("/auth/guest", handlers.GuestLogin(db, rdb, cfg))

		players := v1.Group("/players", auth)
		{
			players.GET("/me/stats", handlers.GetMe(db))
		}

		sessions := v1.Group("/sessions")
		{
			// Browsers send the player token as ?access_token= on the upgrade
			sessions.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), auth, handlers.HandleSessionWebSocket())

			sessions.POST("", auth, handlers.CreateSession(db))
			sessions.GET("/:token", auth, handlers.GetSession)
			sessions.DELETE("/:token", auth, handlers.AbandonSession)
			sessions.POST("/:token/shots", auth, handlers.TakeShot)
			sessions.POST("/:token/continue", auth, handlers.ContinueSession)
		}

		adm := v1.Group("/admin")
		{
			adm.POST("/login", handlers.AdminLogin(db, rdb, cfg))
			adm.POST("/logout", handlers.AdminLogout(rdb))

			secured := adm.Group("", handlers.AdminSessionMiddleware(rdb, db))
			{
				secured.GET("/me", handlers.AdminMe())
				secured.GET("/config", handlers.GetAdminRuntimeConfig(db))
				secured.PUT("/config/:key", handlers.RequireAdminRole("tuning"), handlers.UpdateAdminRuntimeConfig(db, cfg))
				secured.GET("/sessions", handlers.GetAdminSessions())
				secured.POST("/sessions/:token/expire", handlers.ExpireAdminSession(db))
				secured.GET("/audit", handlers.GetAdminAuditLogs(db))
			}
		}
	}
}
