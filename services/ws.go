package services

import (
	"net/http"
	"strconv"

	"github.com/addisbingo/bingo-live/config"
	"github.com/addisbingo/bingo-live/models"
	"github.com/addisbingo/bingo-live/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket attaches an identified player to a room lobby.
func HandleWebSocket(c *gin.Context) {
	roomID := c.Param("room")
	LobbiesMu.Lock()
	lobby, ok := Lobbies[roomID]
	LobbiesMu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	telegramIDStr := c.Query("telegram_id")
	telegramID, err := strconv.ParseInt(telegramIDStr, 10, 64)
	if err != nil || telegramID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid telegram_id"})
		return
	}

	// Identity is verified upstream; here we only resolve the account.
	var user models.User
	if err := config.DB.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := &Client{
		telegramID: user.TelegramID,
		name:       user.Name,
		conn:       conn,
		lobby:      lobby,
		send:       make(chan []byte, 32),
	}
	logger.Infof("[WS] New client: telegramID=%d room=%s", user.TelegramID, roomID)

	lobby.addClient(client)
}
