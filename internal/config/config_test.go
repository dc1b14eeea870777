package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "matchday")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "matchday")
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "disable", cfg.Postgres.SSLMode)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, 10000, cfg.Pricing.TierOneCents)
		assert.Equal(t, 5000, cfg.Pricing.StandardCents)
		assert.Equal(t, 10, cfg.Booking.RateLimit)
		assert.Equal(t, 60, cfg.Booking.RateLimitWindow)
	})

	t.Run("overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("PRICING_TIER_ONE_CENTS", "25000")
		t.Setenv("BOOKING_RATE_LIMIT", "3")

		cfg, err := New()
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 25000, cfg.Pricing.TierOneCents)
		assert.Equal(t, 3, cfg.Booking.RateLimit)
	})

	t.Run("missing database credentials", func(t *testing.T) {
		t.Setenv("POSTGRES_USER", "")
		t.Setenv("POSTGRES_PASSWORD", "x")
		t.Setenv("POSTGRES_DB", "x")

		_, err := New()
		assert.Error(t, err)
	})

	t.Run("malformed integer", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "not-a-port")

		_, err := New()
		assert.Error(t, err)
	})
}
