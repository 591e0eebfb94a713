package routes

import (
	"github.com/addisbingo/bingo-live/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", controllers.RegisterUser)
	api.GET("/users/:telegram_id", controllers.GetUser)
	api.PATCH("/users/:telegram_id/phone", controllers.UpdatePhone)
	api.GET("/users/:telegram_id/cards", controllers.GetCardsByUser)

	// ----------------------
	// Room / lobby routes
	// ----------------------
	api.GET("/rooms", controllers.ListRooms)
	api.GET("/rooms/:room/lobby", controllers.LobbyStatus)
	api.POST("/rooms/:room/cancel", controllers.CancelRound)

	// ----------------------
	// Game history routes
	// ----------------------
	api.GET("/games", controllers.ListGames)
	api.GET("/games/:id", controllers.GetGame)

	// ----------------------
	// Wallet routes
	// ----------------------
	api.POST("/deposit/verify", controllers.VerifyDeposit)
	api.POST("/withdraw", controllers.Withdraw)
}
