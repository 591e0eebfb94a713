package controllers

import (
	"net/http"

	"github.com/addisbingo/bingo-live/config"
	"github.com/addisbingo/bingo-live/models"
	"github.com/addisbingo/bingo-live/services"
	"github.com/gin-gonic/gin"
)

// ListRooms returns the configured rooms.
func ListRooms(c *gin.Context) {
	var rooms []models.Room
	config.DB.Where("active = ?", true).Find(&rooms)
	c.JSON(http.StatusOK, rooms)
}

// LobbyStatus returns a snapshot of a room's live session.
func LobbyStatus(c *gin.Context) {
	roomID := c.Param("room")
	services.LobbiesMu.Lock()
	lobby, ok := services.Lobbies[roomID]
	services.LobbiesMu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	session := lobby.Session()
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"room": roomID, "status": "opening"})
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// CancelRound applies an operator cancellation to a room's live session.
func CancelRound(c *gin.Context) {
	roomID := c.Param("room")
	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "cancelled by operator"
	}

	services.LobbiesMu.Lock()
	lobby, ok := services.Lobbies[roomID]
	services.LobbiesMu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
		return
	}

	if err := lobby.Cancel(req.Reason); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": roomID, "cancelled": true})
}
