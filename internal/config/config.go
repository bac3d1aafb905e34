// ABOUTME: Configuration loading and parsing for chailab servers
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/2389/chailab/internal/theme"
)

// Config represents the complete chailab configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Launch    LaunchConfig    `yaml:"launch" toml:"launch"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Auth      AuthConfig      `yaml:"auth" toml:"auth"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	App       AppConfig       `yaml:"app" toml:"app"`
}

// ServerConfig holds the listener address and lifecycle timing
type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`

	StartupTimeout  time.Duration `yaml:"-" toml:"-"`
	ShutdownTimeout time.Duration `yaml:"-" toml:"-"`
	JoinTimeout     time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	StartupTimeoutRaw  string `yaml:"startup_timeout" toml:"startup_timeout"`
	ShutdownTimeoutRaw string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	JoinTimeoutRaw     string `yaml:"join_timeout" toml:"join_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LaunchConfig controls what happens once the listener is up
type LaunchConfig struct {
	OpenBrowser bool `yaml:"open_browser" toml:"open_browser"`
	Inline      bool `yaml:"inline" toml:"inline"`
	Share       bool `yaml:"share" toml:"share"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// AuthConfig holds authentication configuration. Auth is off when both the
// secret and the user list are empty.
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret" toml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"-" toml:"-"`
	TokenTTLRaw string        `yaml:"token_ttl" toml:"token_ttl"`
	Users       []UserConfig  `yaml:"users" toml:"users"`
}

// Enabled reports whether any credential source is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || len(a.Users) > 0
}

// UserConfig is one Basic-auth login
type UserConfig struct {
	Name         string `yaml:"name" toml:"name"`
	PasswordHash string `yaml:"password_hash" toml:"password_hash"` // bcrypt, see `chailab hash-password`
}

// DatabaseConfig holds prediction log configuration. Empty path disables it.
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname" toml:"hostname"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`
	Funnel    bool   `yaml:"funnel" toml:"funnel"` // expose publicly via Funnel; used for launch.share
}

// AppConfig selects and labels the demo app served by the CLI
type AppConfig struct {
	Name        string `yaml:"name" toml:"name"`
	Title       string `yaml:"title" toml:"title"`
	Description string `yaml:"description" toml:"description"`
	Theme       string `yaml:"theme" toml:"theme"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            7860,
			StartupTimeout:  10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			JoinTimeout:     2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Tailscale: TailscaleConfig{
			Hostname: "chailab",
		},
		App: AppConfig{
			Name:  "greet",
			Theme: theme.Default,
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are parsed as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Unset fields keep the values from Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw content
	expanded := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if !c.Tailscale.Enabled && c.Server.Host == "" {
		return fmt.Errorf("server.host is required (or enable tailscale)")
	}
	if c.Server.StartupTimeout <= 0 {
		return fmt.Errorf("server.startup_timeout must be positive")
	}
	if c.Server.JoinTimeout <= 0 {
		return fmt.Errorf("server.join_timeout must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}

	for i, u := range c.Auth.Users {
		if u.Name == "" {
			return fmt.Errorf("auth.users[%d].name is required", i)
		}
		if u.PasswordHash == "" {
			return fmt.Errorf("auth.users[%d].password_hash is required", i)
		}
	}

	// Tailscale requires a hostname
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Tailscale.Funnel && !c.Tailscale.Enabled {
		return fmt.Errorf("tailscale.funnel requires tailscale.enabled")
	}

	if c.App.Theme != "" && !theme.Exists(c.App.Theme) {
		return fmt.Errorf("app.theme %q is not one of %s", c.App.Theme, strings.Join(theme.Names(), ", "))
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.startup_timeout", cfg.Server.StartupTimeoutRaw, &cfg.Server.StartupTimeout},
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeoutRaw, &cfg.Server.ShutdownTimeout},
		{"server.join_timeout", cfg.Server.JoinTimeoutRaw, &cfg.Server.JoinTimeout},
		{"auth.token_ttl", cfg.Auth.TokenTTLRaw, &cfg.Auth.TokenTTL},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}

	return nil
}
