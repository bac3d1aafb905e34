// ABOUTME: Built-in form controls: text input, text display, number, checkbox, button, label, card
// ABOUTME: Each Props() returns the serializable subset with defaults filled in

package component

// Option mutates a component's raw prop bag at construction time.
type Option func(*Base)

// WithProp sets an arbitrary prop.
func WithProp(key string, value any) Option {
	return func(b *Base) { b.Set(key, value) }
}

// WithLabel sets the "label" prop.
func WithLabel(label string) Option { return WithProp("label", label) }

// WithValue sets the initial "value" prop.
func WithValue(value any) Option { return WithProp("value", value) }

// WithPlaceholder sets the "placeholder" prop.
func WithPlaceholder(text string) Option { return WithProp("placeholder", text) }

// WithDisabled sets the "disabled" prop.
func WithDisabled(disabled bool) Option { return WithProp("disabled", disabled) }

func build(opts []Option) Base {
	b := newBase(nil)
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Input is a single-line text box.
type Input struct{ Base }

// NewInput creates a text input.
func NewInput(opts ...Option) *Input {
	return &Input{Base: build(opts)}
}

func (c *Input) Type() string         { return "input" }
func (c *Input) Aliases() []string    { return []string{"input", "textbox"} }
func (c *Input) DefaultLabel() string { return "Input" }

func (c *Input) Props() map[string]any {
	p := c.extras("value", "placeholder", "type", "disabled", "label", "error", "required")
	p["value"] = c.str("value", "")
	p["placeholder"] = c.str("placeholder", "")
	p["type"] = c.str("type", "text")
	p["disabled"] = c.boolean("disabled", false)
	p["label"] = nilIfEmpty(c.Label())
	p["error"] = nilIfEmpty(c.str("error", ""))
	p["required"] = c.boolean("required", false)
	return p
}

// Text displays a textual value. It is the fallback output type.
type Text struct{ Base }

// NewText creates a text display.
func NewText(opts ...Option) *Text {
	return &Text{Base: build(opts)}
}

func (c *Text) Type() string         { return "text" }
func (c *Text) Aliases() []string    { return []string{"text", "output"} }
func (c *Text) DefaultLabel() string { return "Output" }

func (c *Text) Props() map[string]any {
	p := c.extras("value", "placeholder", "label")
	v, _ := c.Get("value")
	p["value"] = v
	p["placeholder"] = c.str("placeholder", "")
	p["label"] = c.str("label", c.DefaultLabel())
	return p
}

// Number is a numeric input.
type Number struct{ Base }

// NewNumber creates a numeric input.
func NewNumber(opts ...Option) *Number {
	return &Number{Base: build(opts)}
}

func (c *Number) Type() string         { return "number" }
func (c *Number) Aliases() []string    { return []string{"number", "numeric"} }
func (c *Number) DefaultLabel() string { return "Number" }

func (c *Number) Props() map[string]any {
	p := c.extras("value", "min", "max", "step", "disabled", "label")
	p["value"] = c.number("value", 0)
	if v, ok := c.Get("min"); ok {
		p["min"] = v
	}
	if v, ok := c.Get("max"); ok {
		p["max"] = v
	}
	p["step"] = c.number("step", 1)
	p["disabled"] = c.boolean("disabled", false)
	p["label"] = nilIfEmpty(c.Label())
	return p
}

// Checkbox is a boolean toggle.
type Checkbox struct{ Base }

// NewCheckbox creates a checkbox.
func NewCheckbox(opts ...Option) *Checkbox {
	return &Checkbox{Base: build(opts)}
}

func (c *Checkbox) Type() string         { return "checkbox" }
func (c *Checkbox) Aliases() []string    { return []string{"checkbox", "bool", "boolean"} }
func (c *Checkbox) DefaultLabel() string { return "Checkbox" }

func (c *Checkbox) Props() map[string]any {
	p := c.extras("value", "disabled", "label")
	p["value"] = c.boolean("value", false)
	p["disabled"] = c.boolean("disabled", false)
	p["label"] = nilIfEmpty(c.Label())
	return p
}

// Button is a clickable action. Interfaces render their own submit button,
// so this is mainly useful inside custom layouts.
type Button struct{ Base }

// NewButton creates a button.
func NewButton(opts ...Option) *Button {
	return &Button{Base: build(opts)}
}

func (c *Button) Type() string         { return "button" }
func (c *Button) Aliases() []string    { return []string{"button"} }
func (c *Button) DefaultLabel() string { return "Button" }

func (c *Button) Props() map[string]any {
	p := c.extras("value", "variant", "size", "disabled")
	p["value"] = c.str("value", "Button")
	p["variant"] = c.str("variant", "default")
	p["size"] = c.str("size", "default")
	p["disabled"] = c.boolean("disabled", false)
	return p
}

// Label is a static caption.
type Label struct{ Base }

// NewLabel creates a label with the given text.
func NewLabel(text string, opts ...Option) *Label {
	l := &Label{Base: build(opts)}
	if _, ok := l.Get("text"); !ok {
		l.Set("text", text)
	}
	return l
}

func (c *Label) Type() string         { return "label" }
func (c *Label) Aliases() []string    { return []string{"label"} }
func (c *Label) DefaultLabel() string { return "Label" }

func (c *Label) Props() map[string]any {
	p := c.extras("text", "html_for", "disabled", "required")
	p["text"] = c.str("text", "")
	p["html_for"] = nilIfEmpty(c.str("html_for", ""))
	p["disabled"] = c.boolean("disabled", false)
	p["required"] = c.boolean("required", false)
	return p
}

// Card groups a title, description, and body text.
type Card struct{ Base }

// NewCard creates a card.
func NewCard(opts ...Option) *Card {
	return &Card{Base: build(opts)}
}

func (c *Card) Type() string         { return "card" }
func (c *Card) Aliases() []string    { return []string{"card"} }
func (c *Card) DefaultLabel() string { return "Card" }

func (c *Card) Props() map[string]any {
	p := c.extras("title", "description", "content", "footer", "class_name", "label")
	p["title"] = nilIfEmpty(c.str("title", ""))
	p["description"] = nilIfEmpty(c.str("description", ""))
	p["content"] = nilIfEmpty(c.str("content", ""))
	p["footer"] = nilIfEmpty(c.str("footer", ""))
	p["class_name"] = c.str("class_name", "")
	p["label"] = c.str("label", c.DefaultLabel())
	return p
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
