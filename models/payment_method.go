package models

import "time"

// PayoutKind selects how a payout is delivered. Dispatch happens at the call
// site on this enum, never through a runtime registry.
type PayoutKind string

const (
	PayoutWallet      PayoutKind = "wallet"
	PayoutBankAccount PayoutKind = "bank_account"
	PayoutMobileMoney PayoutKind = "mobile_money"
)

type PaymentMethod struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index" json:"user_id"`
	Kind      PayoutKind `json:"kind"`
	Account   string     `json:"account"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
