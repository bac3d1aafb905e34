// ABOUTME: serve and serve-all commands: run demo apps behind the configured stack
// ABOUTME: Wires config into the prediction log, auth, tailscale and the launcher

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/2389/chailab/internal/auth"
	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/config"
	"github.com/2389/chailab/internal/demos"
	"github.com/2389/chailab/internal/launcher"
	"github.com/2389/chailab/internal/store"
	"github.com/2389/chailab/internal/webui"
)

type serveFlags struct {
	app   string
	host  string
	port  int
	open  bool
	share bool
}

// apply overrides cfg with flags the user set explicitly.
func (f *serveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("app") {
		cfg.App.Name = f.app
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = f.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = f.port
	}
	if cmd.Flags().Changed("open") {
		cfg.Launch.OpenBrowser = f.open
	}
	if cmd.Flags().Changed("share") {
		cfg.Launch.Share = f.share
	}
}

func (f *serveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.app, "app", "", "demo app to serve (see `chailab apps`)")
	cmd.Flags().StringVar(&f.host, "host", "", "host to bind")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "port to bind")
	cmd.Flags().BoolVar(&f.open, "open", false, "open a browser tab once listening")
	cmd.Flags().BoolVar(&f.share, "share", false, "expose the app through Tailscale Funnel")
}

func newServeCmd() *cobra.Command {
	var flags serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one demo app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, path, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	return cmd
}

func newServeAllCmd() *cobra.Command {
	var (
		flags serveFlags
		chat  string
	)
	cmd := &cobra.Command{
		Use:   "serve-all",
		Short: "Serve a form app on the port and a chat app on the port after it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServeAll(cmd.Context(), cfg, path, chat, cmd.OutOrStdout())
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&chat, "chat", "echo", "chat demo served on port+1")
	return cmd
}

// app is one demo wired to the ambient stack.
type app struct {
	demo    demos.Demo
	handler *webui.Handler
	server  *launcher.Server
}

// stack holds the shared dependencies built from config.
type stack struct {
	cfg    *config.Config
	logger *slog.Logger
	store  store.Store
	auth   *auth.Authenticator
}

func newStack(cfg *config.Config, logger *slog.Logger) (*stack, error) {
	s := &stack{cfg: cfg, logger: logger}

	if cfg.Database.Path != "" {
		st, err := store.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("opening prediction log: %w", err)
		}
		s.store = st
	}

	if cfg.Auth.Enabled() {
		var verifier *auth.JWTVerifier
		if cfg.Auth.JWTSecret != "" {
			verifier = auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		}
		users := make([]auth.User, 0, len(cfg.Auth.Users))
		for _, u := range cfg.Auth.Users {
			users = append(users, auth.User{Name: u.Name, PasswordHash: u.PasswordHash})
		}
		set, err := auth.NewUsers(users)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("loading auth users: %w", err)
		}
		s.auth = auth.NewAuthenticator(verifier, set, cfg.Auth.TokenTTL, logger)
	}
	return s, nil
}

func (s *stack) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("failed to close prediction log", "error", err)
		}
	}
}

// build wires the named demo. hostSuffix keeps tailscale hostnames unique
// when several apps run at once.
func (s *stack) build(name, hostSuffix string, out io.Writer) (*app, error) {
	d, ok := demos.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown app %q (available: %v)", name, demos.Names())
	}

	var opts []bridge.Option
	opts = append(opts, bridge.WithLogger(s.logger))
	if s.cfg.App.Title != "" && hostSuffix == "" {
		opts = append(opts, bridge.WithTitle(s.cfg.App.Title))
	}
	if s.cfg.App.Description != "" && hostSuffix == "" {
		opts = append(opts, bridge.WithDescription(s.cfg.App.Description))
	}
	if s.cfg.App.Theme != "" && s.cfg.App.Theme != bridge.DefaultTheme {
		opts = append(opts, bridge.WithTheme(s.cfg.App.Theme))
	}

	h, err := d.Handler(webui.Options{Store: s.store, Auth: s.auth, Logger: s.logger}, opts...)
	if err != nil {
		return nil, err
	}

	lopts := launcher.Options{
		Title:           d.Title,
		Description:     d.Description,
		StartupTimeout:  s.cfg.Server.StartupTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
		JoinTimeout:     s.cfg.Server.JoinTimeout,
		Out:             out,
		Logger:          s.logger.With("app", d.Name),
	}
	if ts := s.cfg.Tailscale; ts.Enabled {
		lopts.Tailscale = &launcher.TailscaleOptions{
			Hostname:  ts.Hostname + hostSuffix,
			AuthKey:   ts.AuthKey,
			StateDir:  ts.StateDir,
			Ephemeral: ts.Ephemeral,
			Funnel:    ts.Funnel,
		}
		if ts.StateDir != "" && hostSuffix != "" {
			lopts.Tailscale.StateDir = ts.StateDir + hostSuffix
		}
	}

	return &app{demo: d, handler: h, server: launcher.New(h, lopts)}, nil
}

func (s *stack) launchOptions(port int) launcher.LaunchOptions {
	return launcher.LaunchOptions{
		Host:        s.cfg.Server.Host,
		Port:        port,
		Inline:      s.cfg.Launch.Inline,
		OpenBrowser: launcher.Bool(s.cfg.Launch.OpenBrowser),
		Block:       launcher.Bool(true),
		LogLevel:    s.cfg.Logging.Level,
		Share:       s.cfg.Launch.Share,
	}
}

func printBanner(out io.Writer, cfg *config.Config, path string, apps ...*app) {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Fprint(out, banner)
	gray.Fprintf(out, "    version: %s\n\n", version)

	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Config:    %s\n", path)
	for i, a := range apps {
		green.Fprint(out, "    ▶ ")
		fmt.Fprintf(out, "App:       %s (%s) on %s:%d\n", a.demo.Name, a.demo.Kind, cfg.Server.Host, cfg.Server.Port+i)
	}
	if cfg.Database.Path != "" {
		green.Fprint(out, "    ▶ ")
		fmt.Fprintf(out, "Database:  %s\n", cfg.Database.Path)
	}
	if cfg.Auth.Enabled() {
		green.Fprint(out, "    ▶ ")
		fmt.Fprintf(out, "Auth:      %d user(s)", len(cfg.Auth.Users))
		if cfg.Auth.JWTSecret != "" {
			yellow.Fprint(out, " [jwt]")
		}
		fmt.Fprintln(out)
	}
	if cfg.Tailscale.Enabled {
		green.Fprint(out, "    ▶ ")
		fmt.Fprint(out, "Tailscale: ")
		cyan.Fprint(out, cfg.Tailscale.Hostname)
		if cfg.Tailscale.Funnel || cfg.Launch.Share {
			yellow.Fprint(out, " [funnel]")
		}
		if cfg.Tailscale.Ephemeral {
			gray.Fprint(out, " (ephemeral)")
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out)
}

// resolvePort applies the launcher's default to an unset port.
func resolvePort(port int) int {
	if port == 0 {
		return launcher.DefaultPort
	}
	return port
}

// pairPorts returns the form and chat ports used by serve-all.
func pairPorts(port int) (int, int, error) {
	base := resolvePort(port)
	if base >= 65535 {
		return 0, 0, fmt.Errorf("serve-all needs two ports; %d leaves no room for the chat app", base)
	}
	return base, base + 1, nil
}

func runServe(ctx context.Context, cfg *config.Config, path string, out io.Writer) error {
	logger := setupLogger(cfg.Logging, os.Stdout)
	cfg.Server.Port = resolvePort(cfg.Server.Port)

	s, err := newStack(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.build(cfg.App.Name, "", out)
	if err != nil {
		return err
	}
	printBanner(out, cfg, path, a)

	logger.Info("starting chailab", "app", a.demo.Name, "addr", cfg.Server.Addr())
	return a.server.Launch(ctx, s.launchOptions(cfg.Server.Port))
}

func runServeAll(ctx context.Context, cfg *config.Config, path, chatName string, out io.Writer) error {
	logger := setupLogger(cfg.Logging, os.Stdout)

	formPort, chatPort, err := pairPorts(cfg.Server.Port)
	if err != nil {
		return err
	}
	cfg.Server.Port = formPort

	form, ok := demos.Lookup(cfg.App.Name)
	if !ok || form.Kind != demos.KindInterface {
		return fmt.Errorf("app %q is not a form app", cfg.App.Name)
	}
	chat, ok := demos.Lookup(chatName)
	if !ok || chat.Kind != demos.KindChat {
		return fmt.Errorf("app %q is not a chat app", chatName)
	}

	s, err := newStack(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	formApp, err := s.build(form.Name, "", out)
	if err != nil {
		return err
	}
	chatApp, err := s.build(chat.Name, "-chat", out)
	if err != nil {
		return err
	}
	printBanner(out, cfg, path, formApp, chatApp)

	g, gctx := errgroup.WithContext(ctx)
	for _, run := range []struct {
		a    *app
		port int
	}{{formApp, formPort}, {chatApp, chatPort}} {
		a, opts := run.a, s.launchOptions(run.port)
		g.Go(func() error {
			logger.Info("starting chailab", "app", a.demo.Name, "port", opts.Port)
			if err := a.server.Launch(gctx, opts); err != nil {
				return fmt.Errorf("%s: %w", a.demo.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
