// ABOUTME: Server lifecycle for a chailab app: unstarted, listening, stopped
// ABOUTME: Launch blocks or returns after a readiness probe; Close is bounded and idempotent

package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"tailscale.com/tsnet"
)

// Defaults for LaunchOptions and Options.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 7860
	DefaultStartupTimeout  = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultJoinTimeout     = 2 * time.Second
	DefaultPollInterval    = 100 * time.Millisecond
	DefaultDialTimeout     = 200 * time.Millisecond
)

// AnyPort asks the OS for a free port.
const AnyPort = -1

// ShareUnavailableNotice is printed when sharing is requested without tailscale.
const ShareUnavailableNotice = "Share functionality is not implemented yet."

// State is a Server lifecycle state.
type State int

const (
	StateUnstarted State = iota
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options configures a Server. Zero values take the defaults above.
type Options struct {
	// Title and Description are printed when the server starts.
	Title       string
	Description string

	StartupTimeout  time.Duration
	ShutdownTimeout time.Duration
	JoinTimeout     time.Duration
	PollInterval    time.Duration
	DialTimeout     time.Duration

	// Tailscale serves through a tsnet node instead of a local TCP port.
	Tailscale *TailscaleOptions

	// Out receives the startup banner, inline snippets and notices. Defaults to stdout.
	Out    io.Writer
	Logger *slog.Logger
}

// LaunchOptions are per-launch settings.
type LaunchOptions struct {
	Host string
	// Port 0 selects DefaultPort; AnyPort picks a free one.
	Port int
	// Inline writes an <iframe> snippet for notebook-style embedding.
	Inline bool
	// OpenBrowser opens the URL in a browser. Nil means !Inline.
	OpenBrowser *bool
	// Block serves on the calling goroutine until ctx ends. Nil means !Inline.
	Block *bool
	// LogLevel is the slog level for messages from the HTTP server's own error log.
	LogLevel string
	// Share exposes the app through Tailscale Funnel when tailscale is configured.
	Share bool
}

// Bool returns a pointer to v, for LaunchOptions fields.
func Bool(v bool) *bool { return &v }

func (o LaunchOptions) blocking() bool {
	if o.Block != nil {
		return *o.Block
	}
	return !o.Inline
}

func (o LaunchOptions) openBrowser() bool {
	if o.OpenBrowser != nil {
		return *o.OpenBrowser
	}
	return !o.Inline
}

// Server runs one http.Handler.
type Server struct {
	handler http.Handler
	opts    Options
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	starting bool
	srv      *http.Server
	ln       net.Listener
	ts       *tsnet.Server
	url      string
	done     chan struct{}
	serveErr error
}

// New creates an unstarted server for handler.
func New(handler http.Handler, opts Options) *Server {
	if opts.StartupTimeout <= 0 {
		opts.StartupTimeout = DefaultStartupTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = DefaultJoinTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		handler: handler,
		opts:    opts,
		logger:  opts.Logger.With("component", "launcher"),
	}
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// URL returns the app URL once launched, or "".
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Addr returns the bound listener address once launched, or "".
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Launch starts serving. In blocking mode it returns after ctx is cancelled
// and the server has shut down, or when serving fails. In non-blocking mode
// it returns once the listener accepts a TCP probe; the server then runs
// until Close or until ctx is cancelled.
func (s *Server) Launch(ctx context.Context, lo LaunchOptions) error {
	s.mu.Lock()
	if s.state != StateUnstarted || s.starting {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.starting = true
	s.mu.Unlock()

	host, port := lo.Host, lo.Port
	if host == "" {
		host = DefaultHost
	}
	switch port {
	case 0:
		port = DefaultPort
	case AnyPort:
		port = 0
	}

	if lo.Share && s.opts.Tailscale == nil {
		fmt.Fprintln(s.opts.Out, ShareUnavailableNotice)
	}

	ln, url, ts, err := s.listen(ctx, host, port, lo.Share)

	s.mu.Lock()
	s.starting = false
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state == StateStopped {
		s.mu.Unlock()
		_ = ln.Close()
		if ts != nil {
			_ = ts.Close()
		}
		return ErrClosedDuringStartup
	}

	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), parseLevel(lo.LogLevel)),
	}
	s.ln = ln
	s.ts = ts
	s.url = url
	s.done = make(chan struct{})
	s.state = StateListening
	srv, done, onTailnet := s.srv, s.done, ts != nil
	s.mu.Unlock()

	go s.serve(srv, ln, done)

	if lo.blocking() {
		s.printBanner(fmt.Sprintf("Starting ChaiLab server at %s", url))
		return s.wait(ctx, done)
	}

	if !onTailnet {
		if err := waitForServer(ctx, ln.Addr().String(), s.opts.PollInterval, s.opts.DialTimeout, s.opts.StartupTimeout); err != nil {
			_ = s.Close()
			return err
		}
	}
	context.AfterFunc(ctx, func() { _ = s.Close() })

	switch {
	case lo.Inline:
		fmt.Fprintln(s.opts.Out, InlineHTML(url))
	case lo.openBrowser():
		if err := openBrowser(url); err != nil {
			s.logger.Debug("could not open browser", "url", url, "error", err)
		}
	default:
		s.printBanner(fmt.Sprintf("ChaiLab running at %s", url))
	}
	return nil
}

// netListen is swapped in tests to hold a launch inside listen.
var netListen = net.Listen

// listen is called without s.mu held.
func (s *Server) listen(ctx context.Context, host string, port int, share bool) (net.Listener, string, *tsnet.Server, error) {
	if s.opts.Tailscale != nil {
		return s.listenTailscale(ctx, share)
	}

	ln, err := netListen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, "", nil, fmt.Errorf("listening on %s:%d: %w", host, port, err)
	}
	_, boundPort, _ := net.SplitHostPort(ln.Addr().String())
	return ln, "http://" + net.JoinHostPort(host, boundPort), nil, nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener, done chan struct{}) {
	defer close(done)
	s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("server error", "error", err)
		s.mu.Lock()
		s.serveErr = err
		s.mu.Unlock()
	}
}

// wait blocks until ctx ends or serving stops on its own.
func (s *Server) wait(ctx context.Context, done chan struct{}) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return s.shutdown(s.opts.ShutdownTimeout)
	case <-done:
	}

	s.mu.Lock()
	err := s.serveErr
	s.mu.Unlock()
	closeErr := s.Close()
	if err != nil {
		return fmt.Errorf("HTTP server: %w", err)
	}
	return closeErr
}

// Close stops a listening server, waiting at most the join timeout for the
// serve loop to exit. It is a no-op on unstarted or stopped servers.
func (s *Server) Close() error {
	return s.shutdown(s.opts.JoinTimeout)
}

func (s *Server) shutdown(timeout time.Duration) error {
	s.mu.Lock()
	if s.starting {
		// Launch sees this once its listener is up and releases it.
		s.state = StateStopped
		s.mu.Unlock()
		return nil
	}
	if s.state != StateListening {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	srv, done, ts := s.srv, s.done, s.ts
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("forcing close after shutdown timeout", "timeout", timeout)
			err = srv.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
		}
	}

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("server did not stop within join timeout", "timeout", timeout)
	}

	if ts != nil {
		if err := ts.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tailscale shutdown: %w", err))
		}
	}
	s.logger.Info("server stopped")
	return errors.Join(errs...)
}

func (s *Server) printBanner(line string) {
	fmt.Fprintln(s.opts.Out, line)
	if s.opts.Description != "" {
		fmt.Fprintln(s.opts.Out, s.opts.Description)
	}
}

// waitForServer polls a TCP connect against addr until it succeeds or
// timeout elapses.
func waitForServer(ctx context.Context, addr string, interval, dialTimeout, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	dialer := net.Dialer{Timeout: dialTimeout}
	for {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().Add(interval).After(deadline) {
			return &StartupTimeoutError{Addr: addr, Timeout: timeout}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
