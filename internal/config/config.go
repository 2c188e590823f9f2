package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	UEXBaseURL       string
	UEXAPIToken      string
	PriceCacheTTL    int // hours
	FinalizeCronSpec string
	PriceRefreshSpec string
}

func Load() *Config {
	// .env is optional, real deployments use environment variables
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=sctracker port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		UEXBaseURL:       getEnv("UEX_BASE_URL", "https://api.uexcorp.space/2.0"),
		UEXAPIToken:      getEnv("UEX_API_TOKEN", ""),
		PriceCacheTTL:    getEnvInt("PRICE_CACHE_TTL_HOURS", 12),
		FinalizeCronSpec: getEnv("FINALIZE_CRON_SPEC", "* * * * *"),
		PriceRefreshSpec: getEnv("PRICE_REFRESH_SPEC", "@every 1h"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.UEXAPIToken == "" {
		log.Println("[WARN] UEX_API_TOKEN is not set, market price refresh will be disabled")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[WARN] %s=%q is not a positive integer, using default %d", key, v, def)
		return def
	}
	return n
}
