// ABOUTME: Interface wraps a function with input and output components for a form page
// ABOUTME: Builds the page config once and maps request values through the wrapped function

package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"time"

	"github.com/2389/chailab/internal/component"
)

// ComponentSet groups rendered input and output configs.
type ComponentSet struct {
	Inputs  []component.Config `json:"inputs"`
	Outputs []component.Config `json:"outputs"`
}

// InterfaceConfig is the payload served at /config and embedded in the page.
type InterfaceConfig struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DescriptionHTML string       `json:"description_html,omitempty"`
	Article         string       `json:"article,omitempty"`
	ArticleHTML     string       `json:"article_html,omitempty"`
	Theme           string       `json:"theme"`
	Components      ComponentSet `json:"components"`
	Examples        [][]any      `json:"examples,omitempty"`
}

// Interface maps a form of input components onto a function and its results
// onto output components. It is safe for concurrent use.
type Interface struct {
	fn      *Func
	inputs  []component.Component
	outputs []component.Component
	config  InterfaceConfig
	logger  *slog.Logger
}

// NewInterface wraps fn. Specs are resolved and rendered here so bad
// components fail before anything is served.
func NewInterface(fn any, opts ...Option) (*Interface, error) {
	s := newSettings(DefaultTitle, opts)

	f, err := Inspect(fn)
	if err != nil {
		return nil, &component.ConfigurationError{Subject: "fn", Err: err}
	}

	inputs, err := NormalizeComponents(s.registry, SideInputs, s.inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := NormalizeComponents(s.registry, SideOutputs, s.outputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		outputs = []component.Component{component.NewText()}
	}

	iface := &Interface{
		fn:      f,
		inputs:  inputs,
		outputs: outputs,
		logger:  s.logger.With("component", "interface", "title", s.title),
	}
	if iface.config, err = buildConfig(s, inputs, outputs); err != nil {
		return nil, err
	}

	iface.logger.Debug("interface created",
		"fn", f.Name(),
		"shape", f.Shape().String(),
		"inputs", len(inputs),
		"outputs", len(outputs),
	)
	return iface, nil
}

func buildConfig(s *settings, inputs, outputs []component.Component) (InterfaceConfig, error) {
	cfg := InterfaceConfig{
		Title:           s.title,
		Description:     s.description,
		DescriptionHTML: component.RenderMarkdown(s.description),
		Article:         s.article,
		ArticleHTML:     component.RenderMarkdown(s.article),
		Theme:           s.theme,
		Components: ComponentSet{
			Inputs:  make([]component.Config, 0, len(inputs)),
			Outputs: make([]component.Config, 0, len(outputs)),
		},
	}
	for i, c := range inputs {
		rendered, err := component.ToConfig(c, fmt.Sprintf("input_%d", i))
		if err != nil {
			return cfg, err
		}
		cfg.Components.Inputs = append(cfg.Components.Inputs, rendered)
	}
	for i, c := range outputs {
		rendered, err := component.ToConfig(c, fmt.Sprintf("output_%d", i))
		if err != nil {
			return cfg, err
		}
		cfg.Components.Outputs = append(cfg.Components.Outputs, rendered)
	}

	for i, row := range s.examples {
		subject := fmt.Sprintf("examples[%d]", i)
		if len(row) != len(inputs) {
			return cfg, &component.ConfigurationError{
				Subject: subject,
				Err:     fmt.Errorf("got %d values for %d inputs", len(row), len(inputs)),
			}
		}
		if _, err := json.Marshal(row); err != nil {
			return cfg, &component.ConfigurationError{
				Subject: subject,
				Err:     fmt.Errorf("%w: %v", component.ErrNotSerializable, err),
			}
		}
		cfg.Examples = append(cfg.Examples, row)
	}
	return cfg, nil
}

// Config returns the rendered page config. Ids are positional and stable.
func (i *Interface) Config() InterfaceConfig {
	return i.config
}

// Inputs returns the normalized input components.
func (i *Interface) Inputs() []component.Component { return i.inputs }

// Outputs returns the normalized output components.
func (i *Interface) Outputs() []component.Component { return i.outputs }

// Func returns the wrapped function.
func (i *Interface) Func() *Func { return i.fn }

// Execute runs the wrapped function with positional input values. A single
// non-slice result becomes a one-element list; a slice result is used as is;
// multiple return values become a list in declaration order.
func (i *Interface) Execute(ctx context.Context, inputs []any) ([]any, error) {
	start := time.Now()
	values, err := i.fn.Call(ctx, inputs)
	if err != nil {
		i.logger.Debug("predict failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	i.logger.Debug("predict completed", "duration", time.Since(start))
	return i.renderMarkdown(flatten(values)), nil
}

// renderMarkdown converts values bound to markdown outputs into HTML. Raw
// HTML in the source is omitted, so echoed input is never injected.
func (i *Interface) renderMarkdown(values []any) []any {
	var out []any
	for idx, v := range values {
		if idx >= len(i.outputs) || v == nil {
			continue
		}
		if _, ok := i.outputs[idx].(*component.Markdown); !ok {
			continue
		}
		if out == nil {
			out = slices.Clone(values)
		}
		src, ok := v.(string)
		if !ok {
			src = fmt.Sprint(v)
		}
		out[idx] = component.RenderMarkdown(src)
	}
	if out == nil {
		return values
	}
	return out
}

func flatten(values []any) []any {
	switch len(values) {
	case 0:
		return []any{nil}
	case 1:
		return asList(values[0])
	default:
		return values
	}
}

func asList(v any) []any {
	if v == nil {
		return []any{nil}
	}
	if list, ok := v.([]any); ok {
		return list
	}
	rv := reflect.ValueOf(v)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}
