package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment, plus the
// checkout settings that would otherwise live in a mutable store-settings
// record. Services receive it explicitly; nothing reads ambient globals.
type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	JWTSecret            string
	PaymentCallbackToken string
	MailAPIKey           string
	MailAPIBaseURL       string
	MailFromAddress      string

	// Checkout settings.
	ChannelCode       string
	OrderNumberFormat string
	OrderNumberFloor  int64
	GuestEmailDomain  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		PaymentCallbackToken: os.Getenv("PAYMENT_CALLBACK_TOKEN"),
		MailAPIKey:           os.Getenv("MAIL_API_KEY"),
		MailAPIBaseURL:       getEnvOr("MAIL_API_BASE_URL", "https://api.mailpost.io"),
		MailFromAddress:      os.Getenv("MAIL_FROM_ADDRESS"),

		ChannelCode:       getEnvOr("SALES_CHANNEL", "default"),
		OrderNumberFormat: getEnvOr("ORDER_NUMBER_FORMAT", "{yyyy}{mm}{dd}-{counter}"),
		OrderNumberFloor:  1000,
		GuestEmailDomain:  getEnvOr("GUEST_EMAIL_DOMAIN", "guest.storefront.local"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
