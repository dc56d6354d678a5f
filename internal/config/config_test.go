package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                       "",
		"REDIS_URL":                  "",
		"PRICING_MEALS_DISCOUNTABLE": "",
		"PRICING_EXTRA_DISCOUNTS":    "",
		"PRICING_MAX_EXTRA_ITEMS":    "",
		"RATE_LIMIT_QUOTE_PER_MIN":   "",
		"SECURITY_BODY_LIMIT_BYTES":  "",
		"HTTP_SHUTDOWN_TIMEOUT":      "",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.False(t, cfg.RedisEnabled())
	require.False(t, cfg.Pricing.MealsDiscountable)
	require.True(t, cfg.Pricing.ExtraDiscounts)
	require.Equal(t, 50, cfg.MaxExtraItems)
	require.Equal(t, 120, cfg.QuoteRateLimitPerMin)
	require.EqualValues(t, 64<<10, cfg.BodyLimitBytes)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, "¥", cfg.CurrencySymbol)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"PORT":                       ":9090",
		"REDIS_URL":                  "redis://localhost:6379/0",
		"PRICING_MEALS_DISCOUNTABLE": "yes",
		"PRICING_EXTRA_DISCOUNTS":    "off",
		"PRICING_MAX_EXTRA_ITEMS":    "5",
		"CORS_ALLOWED_ORIGINS":       "https://a.example, ,https://b.example",
		"HTTP_SHUTDOWN_TIMEOUT":      "not-a-duration",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.True(t, cfg.RedisEnabled())
	require.True(t, cfg.Pricing.MealsDiscountable)
	require.False(t, cfg.Pricing.ExtraDiscounts)
	require.Equal(t, 5, cfg.MaxExtraItems)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	_, err := LoadForTests(map[string]string{"PRICING_MAX_EXTRA_ITEMS": "0"})
	require.Error(t, err)

	_, err = LoadForTests(map[string]string{"RATE_LIMIT_QUOTE_PER_MIN": "-1"})
	require.Error(t, err)
}
