package models

import "time"

// Room is the operator-configured template a live session is seeded from.
type Room struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	Name           string    `json:"name"`
	EntryFee       string    `gorm:"type:numeric(12,2)" json:"entry_fee"`
	CommissionRate string    `gorm:"type:numeric(5,4)" json:"commission_rate"`
	MinPlayers     int       `json:"min_players"`
	Capacity       int       `json:"capacity"`
	MaxCards       int       `json:"max_cards"`
	Pattern        string    `json:"pattern"`
	CountdownSec   int       `json:"countdown_sec"`
	PoolSize       int       `json:"pool_size"`
	Active         bool      `gorm:"default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
