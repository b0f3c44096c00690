package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.App.Port)

	order, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, []asset.Cycle{asset.CycleMonthly, asset.CycleDaily}, order)
	assert.Equal(t, "postgres://postgres:@localhost:5432/rentledger?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("BILLING_FALLBACK_ORDER", "weekly, Hourly")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	order, err := cfg.Fallback()
	require.NoError(t, err)
	assert.Equal(t, []asset.Cycle{asset.CycleWeekly, asset.CycleHourly}, order)
	assert.Len(t, cfg.Server.AllowedOrigins, 2)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":           "sqlite",
		"NOTIFY_DRIVER":          "sms",
		"BILLING_FALLBACK_ORDER": "fortnightly",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
