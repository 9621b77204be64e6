package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	body := `{
		"endpoint_addr": ":7070",
		"database_dsn": "postgres://json/db",
		"access_token_validity_duration": "20m",
		"allowed_origins": "https://one.example,https://two.example",
		"completion_model": "gpt-4.1"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-c", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":7070", c.EndpointAddr)
	assert.Equal(t, "postgres://json/db", c.DatabaseDSN)
	assert.Equal(t, 20*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, []string{"https://one.example", "https://two.example"}, c.AllowedOrigins)
	assert.Equal(t, "gpt-4.1", c.CompletionModel)

	// fields absent from the file keep their defaults
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 720*time.Hour, c.RefreshTokenValidityDuration)
}

func TestParseJson_NoFileConfigured(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server"}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.EndpointAddr)
}
