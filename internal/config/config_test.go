package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		APIBaseURL:         "http://localhost:8081/api",
		AuthBaseURL:        "http://localhost:8080/api/auth",
		RequestTimeout:     5 * time.Second,
		SessionBackend:     SessionBackendFile,
		SessionFile:        "session.json",
		TracingSamplerRate: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"relative api url", func(c *Config) { c.APIBaseURL = "/api" }, true},
		{"ftp auth url", func(c *Config) { c.AuthBaseURL = "ftp://example.com/auth" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"unknown backend", func(c *Config) { c.SessionBackend = "etcd" }, true},
		{"redis without url", func(c *Config) { c.SessionBackend = SessionBackendRedis; c.RedisURL = "" }, true},
		{"redis with url", func(c *Config) { c.SessionBackend = SessionBackendRedis; c.RedisURL = "localhost:6379" }, false},
		{"sql bad driver", func(c *Config) {
			c.SessionBackend = SessionBackendSQL
			c.SessionDBDriver = "mysql"
			c.SessionDBDSN = "x"
		}, true},
		{"sql sqlite", func(c *Config) {
			c.SessionBackend = SessionBackendSQL
			c.SessionDBDriver = "sqlite"
			c.SessionDBDSN = ":memory:"
		}, false},
		{"sampler out of range", func(c *Config) { c.TracingSamplerRate = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("API_BASE_URL", "http://api.internal:9000/api")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("SESSION_BACKEND", "  REDIS ")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000/api", c.APIBaseURL)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.Equal(t, SessionBackendRedis, c.SessionBackend)
	assert.Equal(t, "http://localhost:8080/api/auth", c.AuthBaseURL)
	assert.Equal(t, "optimistic_votes=on", c.FeatureFlags)
}
