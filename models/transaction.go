package models

import "time"

type TransactionType string

const (
	DepositTransaction  TransactionType = "deposit"
	WithdrawTransaction TransactionType = "withdraw"
	EntryTransaction    TransactionType = "entry"
	PrizeTransaction    TransactionType = "prize"
	RefundTransaction   TransactionType = "refund"
)

type Transaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	UserID       uint            `json:"user_id"`
	SessionID    string          `gorm:"index" json:"session_id,omitempty"`
	Type         TransactionType `json:"type"`
	Amount       float64         `json:"amount"`
	BalanceAfter float64         `json:"balance_after"`
	Pending      bool            `json:"pending"`
	CreatedAt    time.Time       `json:"created_at"`
}
