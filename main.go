package main

import (
	"context"
	"net/http"
	"time"

	"github.com/addisbingo/bingo-live/config"
	"github.com/addisbingo/bingo-live/routes"
	"github.com/addisbingo/bingo-live/services"
	"github.com/addisbingo/bingo-live/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket lobby endpoint
	r.GET("/ws/:room", services.HandleWebSocket)

	return r
}

func main() {
	cfg := config.Load()

	db := config.SetupDatabase(cfg.DatabaseURL)

	// Start the per-room round loops.
	ctx := context.Background()
	services.InitLobbyService(ctx, db, time.Duration(cfg.DrawEverySec)*time.Second)

	router := setupRouter(cfg)

	logger.Infof("🚀 Bingo server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Errorf("[FATAL] Failed to start server: %v", err)
	}
}
