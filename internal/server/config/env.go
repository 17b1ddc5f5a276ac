package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from environment variables, loading an
// optional .env file first. Missing variables leave the current value intact.
//
// Recognized variables:
//
//	ADDRESS, DATABASE_DSN, SECRET_KEY, ACCESS_TOKEN_VALIDITY_MINUTES,
//	CORS_ORIGIN, IDENTITY_API_KEY, IDENTITY_ENDPOINT, IDENTITY_TIMEOUT_SECONDS
func parseEnv(config *Config) {
	_ = godotenv.Load() // ok if missing in prod

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_VALIDITY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.AccessTokenValidityDuration = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		config.CORSOrigin = v
	}
	if v := os.Getenv("IDENTITY_API_KEY"); v != "" {
		config.IdentityAPIKey = v
	}
	if v := os.Getenv("IDENTITY_ENDPOINT"); v != "" {
		config.IdentityEndpoint = v
	}
	if v := os.Getenv("IDENTITY_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.IdentityTimeout = time.Duration(n) * time.Second
		}
	}
}
