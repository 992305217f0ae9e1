package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DefaultDataURL, cfg.DataURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "@every 5m", cfg.ProbeSchedule)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.TLSEnabled())
	assert.False(t, cfg.HSTSEnabled())
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("CHANGELOG_DATA_URL", "http://localhost:9000/data")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8088", cfg.Port)
	assert.Equal(t, "http://localhost:9000/data", cfg.DataURL)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.HSTSEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad log format": {"LOG_FORMAT", "xml"},
		"bad data url":   {"CHANGELOG_DATA_URL", "not a url"},
		"bad port":       {"PORT", "eighty"},
		"bad duration":   {"CHANGELOG_HTTP_TIMEOUT", "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_TLSPair(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.TLSCertFile = "cert.pem"
	assert.Error(t, cfg.Validate())

	cfg.TLSKeyFile = "key.pem"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.TLSEnabled())
	assert.True(t, cfg.HSTSEnabled())
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "*")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)

	t.Setenv("CORS_ALLOWED_ORIGINS", "not an origin")
	_, err = Load()
	assert.Error(t, err)
}
