// ABOUTME: Entry point for the chailab CLI
// ABOUTME: Serves demo apps and manages auth credentials

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389/chailab/internal/config"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
       _           _ _       _
   ___| |__   __ _(_) | __ _| |__
  / __| '_ \ / _' | | |/ _' | '_ \
 | (__| | | | (_| | | | (_| | |_) |
  \___|_| |_|\__,_|_|_|\__,_|_.__/
`

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chailab",
		Short:         "Turn Go functions into web apps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file, YAML or TOML (default $CHAILAB_CONFIG or ~/.config/chailab/config.yaml)")

	root.AddCommand(
		newServeCmd(),
		newServeAllCmd(),
		newAppsCmd(),
		newTokenCmd(),
		newHashPasswordCmd(),
		newVersionCmd(),
	)
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the config file to load, or "" for defaults.
// Priority: --config > CHAILAB_CONFIG > XDG_CONFIG_HOME/chailab/config.yaml if it exists.
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("CHAILAB_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	path := filepath.Join(configDir, "chailab", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadConfig loads the config file, or returns defaults when there is none.
func loadConfig() (*config.Config, string, error) {
	path := getConfigPath()
	if path == "" {
		return config.Default(), "(defaults)", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, path, fmt.Errorf("config file %s does not exist", path)
		}
		return nil, path, fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chailab %s\n", version)
		},
	}
}
