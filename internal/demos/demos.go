// ABOUTME: Catalog of built-in demo apps served by the chailab CLI
// ABOUTME: Each demo builds a webui handler from a plain Go function

package demos

import (
	"fmt"
	"sort"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/webui"
)

// Kind tells whether a demo is a form or a chat app.
type Kind string

const (
	KindInterface Kind = "interface"
	KindChat      Kind = "chat"
)

// Demo is one runnable example app.
type Demo struct {
	Name        string
	Kind        Kind
	Title       string
	Description string

	options func() []bridge.Option
	fn      any
}

// Handler builds the demo's HTTP handler. opts are applied after the demo's
// own options so callers can override the title or theme.
func (d Demo) Handler(web webui.Options, opts ...bridge.Option) (*webui.Handler, error) {
	all := append([]bridge.Option{
		bridge.WithTitle(d.Title),
		bridge.WithDescription(d.Description),
	}, d.options()...)
	all = append(all, opts...)
	if web.Name == "" {
		web.Name = d.Name
	}

	switch d.Kind {
	case KindChat:
		chat, err := bridge.NewChatInterface(d.fn, all...)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", d.Name, err)
		}
		return webui.NewChatHandler(chat, web), nil
	default:
		iface, err := bridge.NewInterface(d.fn, all...)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", d.Name, err)
		}
		return webui.NewInterfaceHandler(iface, web), nil
	}
}

var catalog = map[string]Demo{}

func register(d Demo) {
	if d.options == nil {
		d.options = func() []bridge.Option { return nil }
	}
	catalog[d.Name] = d
}

// Lookup returns the demo with the given name.
func Lookup(name string) (Demo, bool) {
	d, ok := catalog[name]
	return d, ok
}

// All returns every demo sorted by name.
func All() []Demo {
	out := make([]Demo, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted demo names.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}
