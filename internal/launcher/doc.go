// Package launcher runs a chailab app's HTTP handler and manages its lifecycle.
//
// A Server moves from unstarted to listening to stopped and never back.
//
// Blocking launches serve until the context is cancelled, then shut down
// gracefully. Non-blocking launches serve in the background and return once
// a TCP connect to the listener succeeds, polling every 100ms with a 200ms
// dial timeout for up to 10s before failing with *StartupTimeoutError.
//
// Close waits at most the join timeout (2s by default) and is safe to call
// repeatedly or on a server that never started.
//
// With TailscaleOptions the server listens on a tsnet node instead of a local
// port, and LaunchOptions.Share turns on Funnel. Without tailscale, Share only
// prints a notice.
package launcher
