package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "visitorlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
server:
  addr: "127.0.0.1:9090"
  shutdown_timeout: "3s"

database:
  path: "/tmp/visitors.sqlite3"

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  token_ttl: "12h"

log:
  level: "debug"
  format: "json"

cors:
  allowed_origins: "https://a.example, https://b.example"

redis:
  url: "redis://localhost:6379/0"

visitors:
  allow_body_owner: true
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, "/tmp/visitors.sqlite3", cfg.Database.Path)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.True(t, cfg.Visitors.AllowBodyOwner)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, validYAML)
	t.Setenv("VISITORLOG_SERVER_ADDR", ":7000")
	t.Setenv("VISITORLOG_VISITORS_ALLOW_BODY_OWNER", "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.False(t, cfg.Visitors.AllowBodyOwner)
}

func TestLoad_PathFromEnv(t *testing.T) {
	path := writeYAML(t, validYAML)
	t.Setenv("VISITORLOG_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "visitorlog.sqlite3", cfg.Database.Path)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Visitors.AllowBodyOwner)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:8080"}, cfg.CORS.Origins())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Addr: ":8080", ShutdownTimeout: time.Second},
			Database: DatabaseConfig{Path: "db.sqlite3"},
			Auth:     AuthConfig{TokenTTL: time.Hour},
			Log:      LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty secret uses database", func(c *Config) { c.Auth.JWTSecret = "" }, false},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }, true},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, true},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"no database", func(c *Config) { c.Database.Path = "" }, true},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"uppercase level", func(c *Config) { c.Log.Level = "WARN" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
