package services

import (
	"encoding/json"
	"sync"

	"github.com/addisbingo/bingo-live/utils/logger"
	"github.com/gorilla/websocket"
)

type Client struct {
	telegramID int64
	name       string
	conn       *websocket.Conn
	lobby      *Lobby
	send       chan []byte
	once       sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.lobby.removeClient(c.telegramID)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %d] disconnected normally", c.telegramID)
			} else {
				logger.Errorf("[Client %d] read error: %v", c.telegramID, err)
			}
			return
		}

		func(msg []byte) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("[Client %d] recovered from panic: %v", c.telegramID, r)
				}
			}()

			var data struct {
				Action  string `json:"action"`
				CardID  string `json:"card_id"`
				Number  int    `json:"number"`
				Pattern string `json:"pattern"`
			}
			if err := json.Unmarshal(msg, &data); err != nil {
				logger.Errorf("[Client %d] invalid message: %v", c.telegramID, err)
				return
			}

			switch data.Action {
			case "select_card":
				c.lobby.SelectCard(c.telegramID, data.CardID)
			case "mark":
				c.lobby.MarkNumber(c.telegramID, data.CardID, data.Number)
			case "claim":
				c.lobby.SubmitClaim(c.telegramID, data.CardID, data.Pattern)
			default:
				logger.Infof("[Client %d] unknown action: %q", c.telegramID, data.Action)
			}
		}(message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Errorf("[Client %d] write error: %v", c.telegramID, err)
			return
		}
	}
}
