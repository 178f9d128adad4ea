package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:      "4000",
		MongoURL:  "mongodb://localhost:27017",
		MongoDB:   "blogapp",
		JWTSecret: "a-development-signing-secret",
		Env:       "development",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid development config", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing signing secret refuses to start", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing mongo url", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MongoURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("short secret rejected in production", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("long secret accepted in production", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
		assert.NoError(t, cfg.Validate())
	})
}
