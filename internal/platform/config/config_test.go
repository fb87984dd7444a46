package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "GDSCABINETUIIQ01U", cfg.Provider.OperatorID)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "https://review-k.account.gov.uk", cfg.VCIssuer)
	assert.Equal(t, 6*time.Hour, cfg.VCMaxTTL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KBV_ADDR", ":9999")
	t.Setenv("KBV_PROVIDER_URL", "https://provider.test/soap")
	t.Setenv("KBV_PROVIDER_TIMEOUT", "5s")
	t.Setenv("KBV_PROVIDER_OPERATOR_ID", "OPERATOR99")
	t.Setenv("KBV_PROVIDER_STRATEGY", "2 out of 3")
	t.Setenv("KBV_SESSION_TTL", "30m")
	t.Setenv("KBV_POSTGRES_URL", "postgres://localhost/kbv")
	t.Setenv("KBV_REDIS_POOL_SIZE", "25")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "https://provider.test/soap", cfg.Provider.URL)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "OPERATOR99", cfg.Provider.OperatorID)
	assert.Equal(t, "2 out of 3", cfg.Provider.Strategy)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "postgres://localhost/kbv", cfg.PostgresURL)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("KBV_PROVIDER_TIMEOUT", "soon")
	t.Setenv("KBV_REDIS_POOL_SIZE", "many")

	cfg := FromEnv()

	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
