package authcore

import (
	"errors"
	"time"

	"github.com/cmridge/authcore/password"
)

// Config is the full engine configuration. It is copied at Build time and
// treated as immutable afterwards.
type Config struct {
	JWT     JWTConfig
	Session SessionConfig
	// Password holds the argon2id cost parameters used when no custom
	// Hasher is injected through the builder.
	Password password.Config
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig carries the token-signing parameters. Access and refresh tokens
// share the secret, issuer, and audience; only the TTLs differ.
type JWTConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte
	PublicKey     []byte // ed25519 only
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
}

// SessionConfig controls the refresh session store. The Redis endpoint is
// carried by the client injected through [Builder.WithRedis]; connection
// timeouts are whatever that client is configured with.
type SessionConfig struct {
	RedisPrefix string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics registry.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns a Config with short-lived access tokens, day-long
// refresh tokens, and interactive argon2id parameters. The signing secret,
// issuer, and audience have no usable defaults and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: "hs256",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    24 * time.Hour,
		},
		Session: SessionConfig{
			RedisPrefix: "ars",
		},
		Password: password.DefaultConfig(),
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.JWT.Secret) == 0 {
		return errors.New("config: JWT secret is required")
	}
	if cfg.JWT.Issuer == "" || cfg.JWT.Audience == "" {
		return errors.New("config: JWT issuer and audience are required")
	}
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return errors.New("config: JWT TTLs must be positive")
	}
	if cfg.JWT.AccessTTL >= cfg.JWT.RefreshTTL {
		return errors.New("config: access TTL must be shorter than refresh TTL")
	}
	return nil
}
