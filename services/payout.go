package services

import (
	"fmt"

	"github.com/addisbingo/bingo-live/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayoutRequest carries the settlement output for one recipient.
type PayoutRequest struct {
	TelegramID int64
	SessionID  string
	Amount     decimal.Decimal
	Kind       models.PayoutKind
	Account    string
	Type       models.TransactionType
}

// DispatchPayout delivers a payout according to its kind. Dispatch is a
// switch on the enum at the call site; unknown kinds are an error, never a
// silent fallback.
func DispatchPayout(db *gorm.DB, req PayoutRequest) error {
	switch req.Kind {
	case models.PayoutWallet:
		return creditWallet(db, req)
	case models.PayoutBankAccount, models.PayoutMobileMoney:
		return recordPendingPayout(db, req)
	default:
		return fmt.Errorf("unsupported payout kind %q", req.Kind)
	}
}

// creditWallet applies the amount to the user's balance atomically and
// writes the transaction row.
func creditWallet(db *gorm.DB, req PayoutRequest) error {
	amount, _ := req.Amount.Float64()
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("telegram_id = ?", req.TelegramID).First(&user).Error; err != nil {
			return err
		}
		user.Balance += amount
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Transaction{
			UserID:       user.ID,
			SessionID:    req.SessionID,
			Type:         req.Type,
			Amount:       amount,
			BalanceAfter: user.Balance,
		}).Error
	})
}

// recordPendingPayout queues an offline payout for the operator to settle
// through the named channel.
func recordPendingPayout(db *gorm.DB, req PayoutRequest) error {
	amount, _ := req.Amount.Float64()
	var user models.User
	if err := db.Where("telegram_id = ?", req.TelegramID).First(&user).Error; err != nil {
		return err
	}
	return db.Create(&models.Transaction{
		UserID:    user.ID,
		SessionID: req.SessionID,
		Type:      req.Type,
		Amount:    amount,
		Pending:   true,
	}).Error
}
