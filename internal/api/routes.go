package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/playarena/backend/internal/api/handlers"
	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/middleware"
	"github.com/playarena/backend/internal/wallet"
	"github.com/playarena/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, cfg *config.Config, stores handlers.Stores, ledger wallet.Ledger, hub *ws.Hub) {
	router.Use(middleware.CORSMiddleware(cfg))

	// No-cache middleware outside production so stale room lists never
	// linger in dev browsers
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		authed := v1.Group("")
		authed.Use(handlers.AuthMiddleware(cfg))
		{
			authed.GET("/me", handlers.GetMe(ledger))
			authed.GET("/me/transactions", handlers.GetMyTransactions(db))

			game := authed.Group("/rooms/:game")
			{
				game.GET("", handlers.ListRooms(stores))
				game.POST("", handlers.CreateRoom(stores))
				game.GET("/:id", handlers.GetRoom(stores))
				game.POST("/:id/join", handlers.JoinRoom(stores))
				game.POST("/:id/action", handlers.DispatchAction(stores))
				game.GET("/:id/ws", middleware.WebSocketCORSCheck(cfg), hub.HandleRoomSocket)
			}
		}
	}
}
