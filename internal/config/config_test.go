package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACCESS_TOKEN_MAX_AGE", "")
	t.Setenv("REFRESH_TOKEN_MAX_AGE", "not-a-number")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 900, cfg.AccessTokenMaxAge)
	assert.Equal(t, 864000, cfg.RefreshTokenMaxAge)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
	t.Setenv("ACCESS_TOKEN_MAX_AGE", "60")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 60, cfg.AccessTokenMaxAge)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
		wantErr bool
	}{
		{"both set", "a", "b", false},
		{"missing access", "", "b", true},
		{"missing refresh", "a", "", true},
		{"same secret", "same", "same", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{AccessTokenSecret: tt.access, RefreshTokenSecret: tt.refresh}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
