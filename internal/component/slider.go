// ABOUTME: Range slider component with min/max/step and a list-valued position
// ABOUTME: Scalar values are coerced to a one-element list and clamped into range

package component

// Slider is a numeric range control. Its value is always a list so the
// client can render multi-thumb ranges.
type Slider struct{ Base }

// WithRange sets min, max and step.
func WithRange(min, max, step float64) Option {
	return func(b *Base) {
		b.Set("min", min)
		b.Set("max", max)
		b.Set("step", step)
	}
}

// NewSlider creates a slider. Defaults: value 50 in [0, 100], step 1.
func NewSlider(opts ...Option) *Slider {
	return &Slider{Base: build(opts)}
}

func (c *Slider) Type() string         { return "slider" }
func (c *Slider) Aliases() []string    { return []string{"slider", "range"} }
func (c *Slider) DefaultLabel() string { return "Slider" }

func (c *Slider) Props() map[string]any {
	lo := c.number("min", 0)
	hi := c.number("max", 100)
	if hi < lo {
		lo, hi = hi, lo
	}

	p := c.extras("value", "min", "max", "step", "label", "show_value", "disabled", "orientation")
	p["value"] = c.values(lo, hi)
	p["min"] = lo
	p["max"] = hi
	p["step"] = c.number("step", 1)
	p["label"] = nilIfEmpty(c.Label())
	p["show_value"] = c.boolean("show_value", true)
	p["disabled"] = c.boolean("disabled", false)
	p["orientation"] = c.str("orientation", "horizontal")
	return p
}

// values returns the slider position as a clamped list.
func (c *Slider) values(lo, hi float64) []float64 {
	raw, ok := c.Get("value")
	if !ok {
		return []float64{clamp(50, lo, hi)}
	}

	var out []float64
	switch v := raw.(type) {
	case []float64:
		out = append(out, v...)
	case []int:
		for _, n := range v {
			out = append(out, float64(n))
		}
	case []any:
		for _, n := range v {
			if f, ok := toFloat(n); ok {
				out = append(out, f)
			}
		}
	default:
		if f, ok := toFloat(v); ok {
			out = []float64{f}
		}
	}
	if len(out) == 0 {
		out = []float64{50}
	}
	for i := range out {
		out[i] = clamp(out[i], lo, hi)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
