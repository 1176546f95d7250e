package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, 2175, cfg.Gateway.ChannelID)
	assert.Equal(t, "m-pesa", cfg.Gateway.Provider)
	assert.Equal(t, 60*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Realtime.SendTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Reconcile.PendingExpiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Realtime.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("PAYHERO_CHANNEL_ID", "911")
	t.Setenv("RECONCILE_PENDING_EXPIRY", "0s")
	t.Setenv("RATE_LIMIT_INITIATE_RPS", "2.5")
	t.Setenv("FRONTEND_URL", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 911, cfg.Gateway.ChannelID)
	assert.Zero(t, cfg.Reconcile.PendingExpiry)
	assert.Equal(t, 2.5, cfg.RateLimit.InitiateRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Realtime.AllowedOrigins)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_POOL_SIZE", "many")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_INITIATE_RPS", "fast")

	cfg := Load()

	assert.Equal(t, 10, cfg.Worker.PoolSize)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, float64(1), cfg.RateLimit.InitiateRPS)
}

func TestValidate(t *testing.T) {
	t.Setenv("PAYHERO_USERNAME", "user")
	t.Setenv("PAYHERO_PASSWORD", "secret")
	t.Setenv("PAYHERO_CALLBACK_URL", "https://example.test/donation/callback")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.Gateway.Password = ""
	cfg.Store.Driver = "redis"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYHERO_PASSWORD")
	assert.Contains(t, err.Error(), "redis")
}
