// ABOUTME: Component contract and the serialized config record sent to the browser
// ABOUTME: Provides Base prop storage, label precedence, and JSON-serializability checks

package component

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Component describes one UI control and its current properties.
type Component interface {
	// Type is the discriminator the browser client switches on.
	Type() string
	// Aliases are the shorthand names a registry binds to this type.
	Aliases() []string
	// DefaultLabel is used when neither the caller nor the props name the control.
	DefaultLabel() string
	// Props returns the serializable view of the prop bag.
	Props() map[string]any
}

// Config is the serialized view of a Component as rendered by an Interface.
// ID is positional (input_0, output_1, ...) and is not an identity of the component.
type Config struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
	Label string         `json:"label"`
}

// Base holds the raw prop bag shared by all built-in components.
type Base struct {
	props map[string]any
}

// newBase copies props so later mutation by the caller does not leak in.
func newBase(props map[string]any) Base {
	b := Base{props: make(map[string]any, len(props))}
	for k, v := range props {
		if v == nil {
			continue
		}
		b.props[k] = v
	}
	return b
}

// Get returns the raw prop value for key.
func (b *Base) Get(key string) (any, bool) {
	v, ok := b.props[key]
	return v, ok
}

// Set updates a raw prop. Owning interfaces use this before rendering.
func (b *Base) Set(key string, value any) {
	if b.props == nil {
		b.props = make(map[string]any)
	}
	b.props[key] = value
}

// Label returns the "label" prop, or "" when unset.
func (b *Base) Label() string {
	s, _ := b.props["label"].(string)
	return s
}

// RawProps returns a copy of the raw prop bag.
func (b *Base) RawProps() map[string]any {
	return maps.Clone(b.props)
}

func (b *Base) str(key, fallback string) string {
	if s, ok := b.props[key].(string); ok {
		return s
	}
	return fallback
}

func (b *Base) boolean(key string, fallback bool) bool {
	if v, ok := b.props[key].(bool); ok {
		return v
	}
	return fallback
}

func (b *Base) number(key string, fallback float64) float64 {
	if f, ok := toFloat(b.props[key]); ok {
		return f
	}
	return fallback
}

// extras returns raw props not listed in known, so caller-supplied keys
// still reach the client.
func (b *Base) extras(known ...string) map[string]any {
	out := make(map[string]any)
	for k, v := range b.props {
		skip := false
		for _, kn := range known {
			if k == kn {
				skip = true
				break
			}
		}
		if !skip {
			out[k] = v
		}
	}
	return out
}

// ToConfig renders c into a Config with the given positional id.
// Label precedence: explicit argument, props["label"], DefaultLabel(), title-cased id.
func ToConfig(c Component, id string, label ...string) (Config, error) {
	props := c.Props()
	if err := Validate(props); err != nil {
		return Config{}, &ConfigurationError{Subject: id, Err: err}
	}
	if props == nil {
		props = map[string]any{}
	}
	return Config{
		ID:    id,
		Type:  c.Type(),
		Props: props,
		Label: resolveLabel(c, props, id, label),
	}, nil
}

func resolveLabel(c Component, props map[string]any, id string, explicit []string) string {
	if len(explicit) > 0 && explicit[0] != "" {
		return explicit[0]
	}
	if s, ok := props["label"].(string); ok && s != "" {
		return s
	}
	if d := c.DefaultLabel(); d != "" {
		return d
	}
	return TitleID(id)
}

var titler = cases.Title(language.English)

// TitleID turns a positional id like "input_0" into "Input 0".
func TitleID(id string) string {
	return titler.String(strings.ReplaceAll(id, "_", " "))
}

// Validate reports whether every prop value can be encoded as JSON.
func Validate(props map[string]any) error {
	for k, v := range props {
		if _, err := json.Marshal(v); err != nil {
			return fmt.Errorf("%w: prop %q: %v", ErrNotSerializable, k, err)
		}
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
