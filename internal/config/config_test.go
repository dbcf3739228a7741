package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRY", "")
	t.Setenv("SESSION_CACHE_TTL", "")
	t.Setenv("FEED_LIMIT", "")
	t.Setenv("MATCH_HIDE_BLOCKED_BY", "")

	cfg := Load()

	assert.Equal(t, 50, cfg.FeedLimit)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	assert.Equal(t, cfg.AccessTokenExpiry, cfg.SessionCacheTTL)
	assert.False(t, cfg.HideBlockedBy)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FEED_LIMIT", "20")
	t.Setenv("MATCH_LOCK_TTL", "10s")
	t.Setenv("MATCH_HIDE_BLOCKED_BY", "true")
	t.Setenv("SESSION_CACHE_TTL", "15m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 20, cfg.FeedLimit)
	assert.Equal(t, 10*time.Second, cfg.MatchLockTTL)
	assert.True(t, cfg.HideBlockedBy)
	assert.Equal(t, 15*time.Minute, cfg.SessionCacheTTL)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:              "8080",
			Environment:       "development",
			DatabaseURL:       "postgres://localhost/roommates",
			DBMaxOpenConns:    10,
			DBMaxIdleConns:    2,
			JWTSecret:         defaultJWTSecret,
			AccessTokenExpiry: time.Hour,
			LogFormat:         "console",
			FeedLimit:         50,
			MatchLockTTL:      time.Second,
			MatchLockWait:     time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "default secret in production", mutate: func(c *Config) { c.Environment = "production" }, wantErr: "JWT secret"},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "database URL"},
		{name: "bad port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "invalid port"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log format"},
		{name: "idle above open", mutate: func(c *Config) { c.DBMaxIdleConns = 20 }, wantErr: "pool"},
		{name: "zero feed limit", mutate: func(c *Config) { c.FeedLimit = 0 }, wantErr: "feed limit"},
		{name: "zero lock ttl", mutate: func(c *Config) { c.MatchLockTTL = 0 }, wantErr: "lock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
