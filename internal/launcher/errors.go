// ABOUTME: Lifecycle errors for launching and stopping a chailab server
// ABOUTME: StartupTimeoutError wraps ErrStartupTimeout for errors.Is

package launcher

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrStartupTimeout marks a listener that never accepted a readiness probe.
	ErrStartupTimeout = errors.New("server did not become reachable")

	// ErrAlreadyStarted is returned by Launch on a server that was launched before.
	ErrAlreadyStarted = errors.New("server already launched")

	// ErrClosedDuringStartup is returned by Launch when Close won the race
	// against the listener coming up.
	ErrClosedDuringStartup = errors.New("server closed during startup")
)

// StartupTimeoutError reports the address that could not be reached in time.
type StartupTimeoutError struct {
	Addr    string
	Timeout time.Duration
}

func (e *StartupTimeoutError) Error() string {
	return fmt.Sprintf("%v at %s within %s", ErrStartupTimeout, e.Addr, e.Timeout)
}

func (e *StartupTimeoutError) Unwrap() error {
	return ErrStartupTimeout
}
