package main

import (
	"log"

	"github.com/addisbingo/bingo-live/config"
)

func main() {
	cfg := config.Load()
	db := config.SetupDatabase(cfg.DatabaseURL) // connects + migrates + seeds rooms
	_ = db
	log.Println("✅ Database migration completed successfully")
}
