// ABOUTME: Setup-time error types for component specifications
// ABOUTME: ConfigurationError and UnknownComponentError support errors.Is/As

package component

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks a bad component specification found before serving.
	ErrConfiguration = errors.New("invalid component configuration")

	// ErrNotSerializable indicates a prop value that cannot be encoded as JSON.
	ErrNotSerializable = errors.New("prop value is not JSON-serializable")

	// ErrUnknownComponent indicates a registry lookup miss.
	ErrUnknownComponent = errors.New("unknown component")
)

// ConfigurationError reports a bad component specification. Subject names the
// offending slot, e.g. "inputs[1]" or "output_0".
type ConfigurationError struct {
	Subject string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%v: %v", ErrConfiguration, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrConfiguration, e.Subject, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

// UnknownComponentError is returned when no registry entry matches Key.
type UnknownComponentError struct {
	Key string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownComponent, e.Key)
}

func (e *UnknownComponentError) Unwrap() error {
	return ErrUnknownComponent
}
