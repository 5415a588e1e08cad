package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm151/sweetshop/internal/config"
)

func TestAuthConfig(t *testing.T) {
	t.Run("Should parse from environment with a default ttl", func(t *testing.T) {
		t.Setenv("AUTH_SECRET_KEY", "super-secret")
		t.Setenv("AUTH_ALGORITHM", "HS256")

		cfg, err := config.New[config.Auth]()
		require.NoError(t, err)

		assert.Equal(t, "super-secret", cfg.SecretKey)
		assert.Equal(t, config.SigningAlgHS256, cfg.Algorithm)
		assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	})

	t.Run("Should honor an explicit ttl", func(t *testing.T) {
		t.Setenv("AUTH_SECRET_KEY", "super-secret")
		t.Setenv("AUTH_ALGORITHM", "HS512")
		t.Setenv("AUTH_TOKEN_TTL", "2h")

		cfg, err := config.New[config.Auth]()
		require.NoError(t, err)

		assert.Equal(t, config.SigningAlgHS512, cfg.Algorithm)
		assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	})

	t.Run("Should reject an unknown signing algorithm", func(t *testing.T) {
		t.Setenv("AUTH_SECRET_KEY", "super-secret")
		t.Setenv("AUTH_ALGORITHM", "RS256")

		_, err := config.New[config.Auth]()
		assert.Error(t, err)
	})

	t.Run("Should require a secret key", func(t *testing.T) {
		t.Setenv("AUTH_ALGORITHM", "HS256")

		_, err := config.New[config.Auth]()
		assert.Error(t, err)
	})
}
