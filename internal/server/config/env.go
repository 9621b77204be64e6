package config

import "github.com/kelseyhightower/envconfig"

// parseEnv overlays configuration values from VITABUDDY_-prefixed environment
// variables (e.g. VITABUDDY_DATABASE_DSN, VITABUDDY_ALLOWED_ORIGINS as a
// comma-separated list). Variables that are not set leave the current values
// untouched.
func parseEnv(config *Config) {
	if err := envconfig.Process("vitabuddy", config); err != nil {
		panic(err)
	}
}
