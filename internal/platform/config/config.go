package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// Provider holds the third-party verification service settings.
	Provider Provider

	// VCIssuer is the iss claim placed on issued credentials.
	VCIssuer string
	// VCSigningKey signs issued credential JWTs.
	VCSigningKey string
	// VCMaxTTL bounds the exp claim relative to issuance time.
	VCMaxTTL time.Duration

	// SessionTTL determines the expiry epoch stamped on KBV items.
	SessionTTL time.Duration

	// PostgresURL selects the PostgreSQL item store when set.
	PostgresURL string

	Redis RedisConfig
}

// Provider configures the KBV question provider endpoint.
type Provider struct {
	URL        string
	Timeout    time.Duration
	OperatorID string
	// Strategy is the question-selection policy sent on the first contact.
	Strategy string
}

// RedisConfig holds connection settings for the optional Redis-backed item store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("KBV_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("KBV_VC_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	issuer := os.Getenv("KBV_VC_ISSUER")
	if issuer == "" {
		issuer = "https://review-k.account.gov.uk"
	}

	return Server{
		Addr: addr,
		Provider: Provider{
			URL:        os.Getenv("KBV_PROVIDER_URL"),
			Timeout:    durationEnv("KBV_PROVIDER_TIMEOUT", 30*time.Second),
			OperatorID: envOr("KBV_PROVIDER_OPERATOR_ID", "GDSCABINETUIIQ01U"),
			Strategy:   os.Getenv("KBV_PROVIDER_STRATEGY"),
		},
		VCIssuer:     issuer,
		VCSigningKey: signingKey,
		VCMaxTTL:     durationEnv("KBV_VC_MAX_TTL", 6*time.Hour),
		SessionTTL:   durationEnv("KBV_SESSION_TTL", time.Hour),
		PostgresURL:  os.Getenv("KBV_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("KBV_REDIS_URL"),
			PoolSize:     intEnv("KBV_REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("KBV_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("KBV_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("KBV_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("KBV_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
