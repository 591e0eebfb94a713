package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game is the persisted snapshot of one terminal session. List-valued fields
// are stored as JSON blobs at this boundary only; the live engine never
// touches the encoded form.
type Game struct {
	ID           uint   `gorm:"primaryKey"`
	SessionID    string `gorm:"uniqueIndex"`
	RoomID       string `gorm:"index"`
	Status       string // completed | cancelled_admin | cancelled_no_min_players
	WinnerExists bool
	WinnerID     *int64
	WinnerName   string
	WinnerCardID string
	Pattern      string
	PrizeAmount  string `gorm:"type:numeric(12,2)"`
	Commission   string `gorm:"type:numeric(12,2)"`
	EntriesCount int
	PlayersJSON  datatypes.JSON // joined player ids
	NumbersJSON  datatypes.JSON // draw history, in draw order
	CardsJSON    datatypes.JSON // issued card ids
	MarkedJSON   datatypes.JSON // winning card's marked numbers
	StartTime    time.Time
	EndTime      time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
