// ABOUTME: Tailscale listener for serving an app on a tailnet through tsnet
// ABOUTME: Share requests use Funnel on :443, otherwise the node serves plain HTTP on :80

package launcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"tailscale.com/tsnet"
)

// TailscaleOptions configure the tsnet node.
type TailscaleOptions struct {
	Hostname  string
	AuthKey   string
	StateDir  string
	Ephemeral bool
	// Funnel exposes the app publicly even when Share is not requested.
	Funnel bool
}

// resolveStateDir returns the state directory, using default if not configured.
func resolveStateDir(configured, hostname string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for tailscale state (set tailscale.state_dir explicitly): %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "chailab", hostname), nil
}

// resolveAuthKey returns the auth key from config or environment.
func resolveAuthKey(configured string) (string, error) {
	authKey := configured
	if authKey == "" {
		authKey = os.Getenv("TS_AUTHKEY")
	}
	if authKey == "" {
		return "", errors.New("tailscale auth key required: set auth_key in config or TS_AUTHKEY environment variable")
	}
	return authKey, nil
}

// listenTailscale brings up a tsnet node and returns its listener, URL and
// the node, which the caller owns.
func (s *Server) listenTailscale(ctx context.Context, share bool) (net.Listener, string, *tsnet.Server, error) {
	tsCfg := s.opts.Tailscale
	hostname := tsCfg.Hostname
	if hostname == "" {
		hostname = "chailab"
	}

	stateDir, err := resolveStateDir(tsCfg.StateDir, hostname)
	if err != nil {
		return nil, "", nil, err
	}
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, "", nil, fmt.Errorf("creating tailscale state dir: %w", err)
	}
	authKey, err := resolveAuthKey(tsCfg.AuthKey)
	if err != nil {
		return nil, "", nil, err
	}

	ts := &tsnet.Server{
		Hostname:  hostname,
		Dir:       stateDir,
		Ephemeral: tsCfg.Ephemeral,
		AuthKey:   authKey,
	}

	s.logger.Info("starting tailscale node", "hostname", hostname, "state_dir", stateDir, "ephemeral", tsCfg.Ephemeral)
	status, err := ts.Up(ctx)
	if err != nil {
		_ = ts.Close()
		return nil, "", nil, fmt.Errorf("starting tailscale: %w", err)
	}

	dnsName := hostname
	if status.Self != nil && status.Self.DNSName != "" {
		dnsName = strings.TrimSuffix(status.Self.DNSName, ".")
	}

	var (
		ln     net.Listener
		scheme string
	)
	if share || tsCfg.Funnel {
		s.logger.Info("enabling tailscale funnel (public HTTPS) on :443")
		ln, err = ts.ListenFunnel("tcp", ":443")
		scheme = "https://"
	} else {
		ln, err = ts.Listen("tcp", ":80")
		scheme = "http://"
	}
	if err != nil {
		_ = ts.Close()
		return nil, "", nil, fmt.Errorf("listening on tailscale: %w", err)
	}

	url := scheme + dnsName
	s.logger.Info("tailscale node ready", "url", url)
	return ln, url, ts, nil
}
