package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds process-level settings sourced from the environment.
type AppConfig struct {
	Port         string
	DatabaseURL  string
	CORSOrigin   string
	DrawEverySec int
}

// Load reads .env (if present) and validates required variables.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, reading environment variables")
	}

	cfg := AppConfig{
		Port:         getEnv("PORT", "4000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:3000"),
		DrawEverySec: getEnvInt("DRAW_INTERVAL_SEC", 6),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required in .env or environment")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
