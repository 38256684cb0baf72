package goOrg

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Zero values are filled in
// from defaultConfig by the Builder; instances are treated as immutable
// after Build.
type Config struct {
	JWT      JWTConfig
	Store    StoreConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures session token issuance and verification.
type JWTConfig struct {
	SigningSecret []byte
	TokenTTL      time.Duration
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig configures the Redis persistence layer.
type StoreConfig struct {
	RedisPrefix string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig configures argon2id hashing.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig configures the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TokenTTL: 24 * time.Hour,
		},
		Store: StoreConfig{
			RedisPrefix: "og",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
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

// Validate checks the config for values the engine cannot run with.
func (c *Config) Validate() error {
	if len(c.JWT.SigningSecret) < 16 {
		return errors.New("JWT signing secret must be at least 16 bytes")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("JWT token TTL must be positive")
	}
	if c.Store.RedisPrefix == "" {
		return errors.New("store redis prefix must not be empty")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.SigningSecret = append([]byte(nil), cfg.JWT.SigningSecret...)
	return out
}
