package controllers

import (
	"net/http"

	"github.com/addisbingo/bingo-live/config"
	"github.com/addisbingo/bingo-live/models"
	"github.com/addisbingo/bingo-live/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// VerifyDepositRequest carries a copied bank SMS for verification.
type VerifyDepositRequest struct {
	TelegramID     int64  `json:"telegramId" binding:"required"`
	SMS            string `json:"sms" binding:"required"`
	ExpectedAmount int    `json:"expectedAmount" binding:"required"`
	Reference      string `json:"reference" binding:"required"`
}

// VerifyDeposit verifies a bank SMS and credits the wallet on success.
func VerifyDeposit(c *gin.Context) {
	var req VerifyDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verified, err := services.VerifyDeposit(req.SMS)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !verified {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}

	var user models.User
	if err := config.DB.Where("telegram_id = ?", req.TelegramID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Reference uniqueness blocks replaying the same SMS.
	deposit := models.Deposit{
		UserID:    user.ID,
		Amount:    float64(req.ExpectedAmount),
		Reference: req.Reference,
	}
	if err := config.DB.Create(&deposit).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "deposit already applied"})
		return
	}

	err = services.DispatchPayout(config.DB, services.PayoutRequest{
		TelegramID: req.TelegramID,
		Amount:     decimal.NewFromInt(int64(req.ExpectedAmount)),
		Kind:       models.PayoutWallet,
		Type:       models.DepositTransaction,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Withdraw debits the wallet and dispatches the payout through the user's
// chosen channel.
func Withdraw(c *gin.Context) {
	var req struct {
		TelegramID int64             `json:"telegramId" binding:"required"`
		Amount     float64           `json:"amount" binding:"required"`
		Kind       models.PayoutKind `json:"kind"`
		Account    string            `json:"account"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Kind == "" {
		req.Kind = models.PayoutBankAccount
	}

	var user models.User
	if err := config.DB.Where("telegram_id = ?", req.TelegramID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Balance < req.Amount {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
		return
	}

	// Debit the wallet, then queue the outbound payout.
	err := services.DispatchPayout(config.DB, services.PayoutRequest{
		TelegramID: req.TelegramID,
		Amount:     decimal.NewFromFloat(req.Amount).Neg(),
		Kind:       models.PayoutWallet,
		Type:       models.WithdrawTransaction,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update balance"})
		return
	}
	err = services.DispatchPayout(config.DB, services.PayoutRequest{
		TelegramID: req.TelegramID,
		Amount:     decimal.NewFromFloat(req.Amount),
		Kind:       req.Kind,
		Account:    req.Account,
		Type:       models.WithdrawTransaction,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue payout"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}
