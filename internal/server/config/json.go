package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/vitabuddy/vitabuddy/internal/flagx"
	"github.com/vitabuddy/vitabuddy/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "15m" and integer nanoseconds. After
// unmarshalling, set fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                 string         `json:"endpoint_addr"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	TokenPurgeInterval           timex.Duration `json:"token_purge_interval"`
	AllowedOrigins               string         `json:"allowed_origins"`
	CompletionAPIKey             string         `json:"completion_api_key"`
	CompletionBaseURL            string         `json:"completion_base_url"`
	CompletionModel              string         `json:"completion_model"`
	SystemPrompt                 string         `json:"system_prompt"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags;
// if neither is set, no JSON file is loaded. Only non-zero values from the
// file override the current configuration. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.TokenPurgeInterval.Duration != 0 {
		config.TokenPurgeInterval = c.TokenPurgeInterval.Duration
	}
	if c.AllowedOrigins != "" {
		config.AllowedOrigins = strings.Split(c.AllowedOrigins, ",")
	}
	if c.CompletionAPIKey != "" {
		config.CompletionAPIKey = c.CompletionAPIKey
	}
	if c.CompletionBaseURL != "" {
		config.CompletionBaseURL = c.CompletionBaseURL
	}
	if c.CompletionModel != "" {
		config.CompletionModel = c.CompletionModel
	}
	if c.SystemPrompt != "" {
		config.SystemPrompt = c.SystemPrompt
	}
}
