package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/apponta/apponta-server/internal/flagx"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. Duration fields are plain strings parsed with
// time.ParseDuration ("15m", "10s").
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string `json:"endpoint_addr_http"`
	DatabaseDSN                 string `json:"database_dsn"`
	SecretKey                   string `json:"secret_key"`
	AccessTokenValidityDuration string `json:"access_token_validity_duration"`
	CORSOrigin                  string `json:"cors_origin"`
	IdentityAPIKey              string `json:"identity_api_key"`
	IdentityEndpoint            string `json:"identity_endpoint"`
	IdentityTimeout             string `json:"identity_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config
// command-line flags; if neither is set, no JSON file is loaded.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != "" {
		if d, err := time.ParseDuration(c.AccessTokenValidityDuration); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if c.CORSOrigin != "" {
		config.CORSOrigin = c.CORSOrigin
	}
	if c.IdentityAPIKey != "" {
		config.IdentityAPIKey = c.IdentityAPIKey
	}
	if c.IdentityEndpoint != "" {
		config.IdentityEndpoint = c.IdentityEndpoint
	}
	if c.IdentityTimeout != "" {
		if d, err := time.ParseDuration(c.IdentityTimeout); err == nil {
			config.IdentityTimeout = d
		}
	}
}
