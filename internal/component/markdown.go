// ABOUTME: Markdown display component rendered server-side with goldmark
// ABOUTME: Exposes the source under "value" and the rendered markup under "html"

package component

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
)

// Markdown displays formatted text. The client prefers the derived "html"
// prop and falls back to the raw value.
type Markdown struct{ Base }

// NewMarkdown creates a markdown display with an optional initial source.
func NewMarkdown(opts ...Option) *Markdown {
	return &Markdown{Base: build(opts)}
}

func (c *Markdown) Type() string         { return "markdown" }
func (c *Markdown) Aliases() []string    { return []string{"markdown", "md"} }
func (c *Markdown) DefaultLabel() string { return "Markdown" }

func (c *Markdown) Props() map[string]any {
	p := c.extras("value", "html", "label")
	src := c.str("value", "")
	p["value"] = src
	p["html"] = RenderMarkdown(src)
	p["label"] = c.str("label", c.DefaultLabel())
	return p
}

// RenderMarkdown converts markdown source to HTML. On a conversion failure
// the source is returned as a single escaped paragraph.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return fmt.Sprintf("<p>%s</p>", html.EscapeString(src))
	}
	return buf.String()
}
