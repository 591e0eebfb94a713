package controllers

import (
	"net/http"

	"github.com/addisbingo/bingo-live/config"
	"github.com/addisbingo/bingo-live/models"
	"github.com/gin-gonic/gin"
)

// ListGames returns finished rounds, most recent first.
func ListGames(c *gin.Context) {
	var games []models.Game
	q := config.DB.Order("end_time DESC").Limit(100)
	if roomID := c.Query("room"); roomID != "" {
		q = q.Where("room_id = ?", roomID)
	}
	q.Find(&games)
	c.JSON(http.StatusOK, games)
}

// GetGame returns one finished round by session id.
func GetGame(c *gin.Context) {
	var game models.Game
	if err := config.DB.Where("session_id = ?", c.Param("id")).First(&game).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, game)
}

// GetCardsByUser fetches the cards a player has entered, for audit/history.
func GetCardsByUser(c *gin.Context) {
	tidStr := c.Param("telegram_id")
	var cards []models.Card
	if err := config.DB.Where("player_id = ?", tidStr).Order("created_at DESC").Limit(100).Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cards"})
		return
	}
	c.JSON(http.StatusOK, cards)
}
