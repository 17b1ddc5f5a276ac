package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Empty(t, cfg.IdentityAPIKey)
	assert.Equal(t, 10*time.Second, cfg.IdentityTimeout)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("ACCESS_TOKEN_VALIDITY_MINUTES", "45")
	t.Setenv("IDENTITY_API_KEY", "key-123")
	t.Setenv("IDENTITY_TIMEOUT_SECONDS", "3")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, "key-123", cfg.IdentityAPIKey)
	assert.Equal(t, 3*time.Second, cfg.IdentityTimeout)

	// untouched variables keep their defaults
	assert.Equal(t, "*", cfg.CORSOrigin)
}

func TestParseEnv_BadNumberKeepsDefault(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_VALIDITY_MINUTES", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
}
