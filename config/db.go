package config

import (
	"log"

	"github.com/addisbingo/bingo-live/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// SetupDatabase connects, migrates and seeds the default rooms.
func SetupDatabase(databaseURL string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to DB: %v", err)
	}
	DB = db

	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Game{},
		&models.Card{},
		&models.Transaction{},
		&models.Deposit{},
		&models.PaymentMethod{},
	); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	seedRooms(db)
	log.Println("✅ Database migration completed")
	return db
}

// seedRooms creates the stake rooms on first boot.
func seedRooms(db *gorm.DB) {
	defaults := []models.Room{
		{ID: "room-10", Name: "Birr 10", EntryFee: "10.00"},
		{ID: "room-20", Name: "Birr 20", EntryFee: "20.00"},
		{ID: "room-50", Name: "Birr 50", EntryFee: "50.00"},
		{ID: "room-100", Name: "Birr 100", EntryFee: "100.00"},
	}
	for i := range defaults {
		defaults[i].CommissionRate = "0.2000"
		defaults[i].MinPlayers = 2
		defaults[i].Capacity = 100
		defaults[i].MaxCards = 2
		defaults[i].Pattern = "row"
		defaults[i].CountdownSec = 30
		defaults[i].PoolSize = 100
		defaults[i].Active = true

		var existing models.Room
		if err := db.First(&existing, "id = ?", defaults[i].ID).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&defaults[i]).Error; err != nil {
				log.Printf("[WARN] failed to seed room %s: %v", defaults[i].ID, err)
			}
		}
	}
}
