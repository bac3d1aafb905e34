package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chailab/internal/auth"
	"github.com/2389/chailab/internal/config"
)

func init() {
	color.NoColor = true
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chailab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "chailab dev\n", out)
}

func TestApps(t *testing.T) {
	out, err := runCmd(t, "", "apps")
	require.NoError(t, err)
	for _, name := range []string{"greet", "echo", "random", "calculator", "markdown", "experiment"} {
		assert.Contains(t, out, name)
	}
}

func TestHashPassword(t *testing.T) {
	out, err := runCmd(t, "hunter2\n", "hash-password")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	users, err := auth.NewUsers([]auth.User{{Name: "ada", PasswordHash: hash}})
	require.NoError(t, err)
	assert.NoError(t, users.Check("ada", "hunter2"))

	_, err = runCmd(t, "", "hash-password")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	path := writeConfig(t, "auth:\n  jwt_secret: "+secret+"\n")

	out, err := runCmd(t, "", "--config", path, "token", "--sub", "ada")
	require.NoError(t, err)

	sub, err := auth.NewJWTVerifier([]byte(secret)).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ada", sub)

	_, err = runCmd(t, "", "--config", path, "token")
	assert.ErrorContains(t, err, "--sub")
}

func TestToken_NoSecret(t *testing.T) {
	path := writeConfig(t, "app:\n  name: greet\n")
	_, err := runCmd(t, "", "--config", path, "token", "--sub", "ada")
	assert.ErrorContains(t, err, "jwt_secret")
}

func TestLoadConfig_Missing(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nope.yaml")
	defer func() { configPath = "" }()
	_, _, err := loadConfig()
	assert.ErrorContains(t, err, "does not exist")
}

func TestGetConfigPath_Env(t *testing.T) {
	configPath = ""
	t.Setenv("CHAILAB_CONFIG", "/etc/chailab.toml")
	assert.Equal(t, "/etc/chailab.toml", getConfigPath())
}

func TestServe_UnknownApp(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n")
	_, err := runCmd(t, "", "--config", path, "serve", "--app", "nope")
	assert.ErrorContains(t, err, "unknown app")
}

func TestServeAll_RejectsChatAsForm(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n")
	_, err := runCmd(t, "", "--config", path, "serve-all", "--app", "echo")
	assert.ErrorContains(t, err, "not a form app")
}

func TestPairPorts(t *testing.T) {
	form, chat, err := pairPorts(0)
	require.NoError(t, err)
	assert.Equal(t, 7860, form)
	assert.Equal(t, 7861, chat)

	form, chat, err = pairPorts(9000)
	require.NoError(t, err)
	assert.Equal(t, 9000, form)
	assert.Equal(t, 9001, chat)

	_, _, err = pairPorts(65535)
	assert.Error(t, err)
}

func TestServeAll_RejectsHighestPort(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n")
	_, err := runCmd(t, "", "--config", path, "serve-all", "--app", "greet", "--port", "65535")
	assert.ErrorContains(t, err, "leaves no room")
}

func TestNewStack(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "predictions.db")
	cfg.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Auth.Users = []config.UserConfig{{Name: "ada", PasswordHash: hash}}

	s, err := newStack(cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer s.Close()

	assert.NotNil(t, s.store)
	assert.True(t, s.auth.Enabled())

	a, err := s.build("greet", "", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "greet", a.handler.Name())
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	logger.With("component", "test").WithGroup("req").Debug("hello", "id", 7)

	line := buf.String()
	assert.Contains(t, line, "DBG hello")
	assert.Contains(t, line, "component=test")
	assert.Contains(t, line, "req.id=7")

	buf.Reset()
	logger = setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("skipped")
	logger.Warn("kept")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}
