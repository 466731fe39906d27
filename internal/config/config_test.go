package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "jwt_secret")
		t.Setenv("PAYMENT_CALLBACK_TOKEN", "callback_token")
		t.Setenv("MAIL_API_KEY", "mail_key")
		t.Setenv("SALES_CHANNEL", "webstore")
		t.Setenv("ORDER_NUMBER_FORMAT", "SO-{yy}{mm}-{counter}")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "jwt_secret", cfg.JWTSecret)
		assert.Equal(t, "callback_token", cfg.PaymentCallbackToken)
		assert.Equal(t, "mail_key", cfg.MailAPIKey)
		assert.Equal(t, "webstore", cfg.ChannelCode)
		assert.Equal(t, "SO-{yy}{mm}-{counter}", cfg.OrderNumberFormat)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("SALES_CHANNEL", "")
		t.Setenv("ORDER_NUMBER_FORMAT", "")
		t.Setenv("GUEST_EMAIL_DOMAIN", "")

		cfg := LoadConfig()

		assert.Equal(t, "default", cfg.ChannelCode)
		assert.Equal(t, "{yyyy}{mm}{dd}-{counter}", cfg.OrderNumberFormat)
		assert.Equal(t, int64(1000), cfg.OrderNumberFloor)
		assert.Equal(t, "guest.storefront.local", cfg.GuestEmailDomain)
	})
}
