// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, "chailab.yaml", `
server:
  host: "0.0.0.0"
  port: 8000
  startup_timeout: "3s"
  join_timeout: "500ms"

launch:
  open_browser: true

logging:
  level: "debug"
  format: "json"

auth:
  jwt_secret: "s3cret"
  token_ttl: "1h"
  users:
    - name: "ada"
      password_hash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

database:
  path: "./predictions.db"

app:
  name: "calculator"
  theme: "purple"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, 3*time.Second, cfg.Server.StartupTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Server.JoinTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout, "unset durations keep defaults")
	assert.True(t, cfg.Launch.OpenBrowser)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	require.Len(t, cfg.Auth.Users, 1)
	assert.Equal(t, "ada", cfg.Auth.Users[0].Name)
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, "./predictions.db", cfg.Database.Path)
	assert.Equal(t, "calculator", cfg.App.Name)
	assert.Equal(t, "purple", cfg.App.Theme)
}

func TestLoad_ValidTOML(t *testing.T) {
	path := writeConfig(t, "chailab.toml", `
[server]
host = "127.0.0.1"
port = 9000
startup_timeout = "2s"

[logging]
level = "warn"
format = "text"

[tailscale]
enabled = true
hostname = "demo"
funnel = true

[app]
name = "echo"
title = "Echo"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.StartupTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Tailscale.Enabled)
	assert.True(t, cfg.Tailscale.Funnel)
	assert.Equal(t, "demo", cfg.Tailscale.Hostname)
	assert.Equal(t, "echo", cfg.App.Name)
	assert.Equal(t, "Echo", cfg.App.Title)
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("CHAILAB_TEST_SECRET", "from-env")
	t.Setenv("CHAILAB_TEST_PORT", "7000")

	path := writeConfig(t, "chailab.yaml", `
server:
  port: ${CHAILAB_TEST_PORT}
auth:
  jwt_secret: "${CHAILAB_TEST_SECRET}"
database:
  path: "${CHAILAB_TEST_UNSET}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Empty(t, cfg.Database.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"bad duration", "c.yaml", "server:\n  startup_timeout: \"soon\"\n", "startup_timeout"},
		{"bad port", "c.yaml", "server:\n  port: 70000\n", "server.port"},
		{"bad level", "c.yaml", "logging:\n  level: \"loud\"\n", "logging.level"},
		{"bad format", "c.yaml", "logging:\n  format: \"xml\"\n", "logging.format"},
		{"user without hash", "c.yaml", "auth:\n  users:\n    - name: ada\n", "password_hash"},
		{"tailscale without hostname", "c.yaml", "tailscale:\n  enabled: true\n  hostname: \"\"\n", "tailscale.hostname"},
		{"funnel without tailscale", "c.yaml", "tailscale:\n  funnel: true\n", "tailscale.funnel"},
		{"unknown theme", "c.yaml", "app:\n  theme: neon\n", "app.theme"},
		{"malformed yaml", "c.yaml", "server: [\n", "parsing config file"},
		{"malformed toml", "c.toml", "[server\n", "parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should mention %q", err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "127.0.0.1:7860", cfg.Server.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.StartupTimeout)
	assert.Equal(t, 2*time.Second, cfg.Server.JoinTimeout)
	assert.Equal(t, "greet", cfg.App.Name)
	assert.False(t, cfg.Auth.Enabled())
}
