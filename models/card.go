package models

import (
	"time"

	"gorm.io/datatypes"
)

// Card is the audit row for a card issued during a session.
type Card struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CardSN     string         `gorm:"index" json:"card_sn"`
	SessionID  string         `gorm:"index" json:"session_id"`
	PlayerID   int64          `json:"player_id"`
	LayoutJSON datatypes.JSON `json:"layout"` // column -> values
	CreatedAt  time.Time      `json:"created_at"`
}
