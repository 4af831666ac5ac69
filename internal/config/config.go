package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

// Stripe holds the payment gateway credentials. They are injected into the
// gateway adapter and the webhook processor at construction time.
type Stripe struct {
	SecretKey     string
	WebhookSecret string
	APIBaseURL    string
}

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	SellerEmail    string
	SellerPassword string
	Currency       string
	Stripe         Stripe
	// PendingOrderTTL bounds how long an unpaid online order may wait for a
	// webhook before the reaper deletes it. Zero disables the reaper.
	PendingOrderTTL time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "greencart"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		SellerEmail:    getEnvOrDefault("SELLER_EMAIL", ""),
		SellerPassword: getEnvOrDefault("SELLER_PASSWORD", ""),
		Currency:       getEnvOrDefault("CURRENCY", "usd"),
		Stripe: Stripe{
			SecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
			APIBaseURL:    getEnvOrDefault("STRIPE_API_BASE_URL", "https://api.stripe.com"),
		},
		PendingOrderTTL: getDurationEnv("PENDING_ORDER_TTL_MINUTES", 0, time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
