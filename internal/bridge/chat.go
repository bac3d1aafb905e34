// ABOUTME: ChatInterface wraps a (message, history) function behind a chat page
// ABOUTME: Execute returns the whole updated transcript, not just the new turn

package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/2389/chailab/internal/component"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// Extra keeps any other keys the client sent with the entry.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra next to role and content.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+2)
	maps.Copy(out, m.Extra)
	out["role"] = m.Role
	out["content"] = m.Content
	return json.Marshal(out)
}

func cloneHistory(history []Message) []Message {
	out := make([]Message, len(history))
	for i, m := range history {
		m.Extra = maps.Clone(m.Extra)
		out[i] = m
	}
	return out
}

// ChatConfig is the payload served at /config for chat apps.
type ChatConfig struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"description_html,omitempty"`
	Placeholder     string `json:"placeholder"`
	Autofocus       bool   `json:"autofocus"`
	SaveHistory     bool   `json:"save_history"`
	Theme           string `json:"theme"`
}

// ChatInterface calls fn(message, history) and appends the reply.
// The function may take a leading context and may return a string, any
// value, an iterator, or a channel; streamed chunks are joined.
type ChatInterface struct {
	fn     *Func
	config ChatConfig
	logger *slog.Logger
}

// NewChatInterface wraps fn for a chat page.
func NewChatInterface(fn any, opts ...Option) (*ChatInterface, error) {
	s := newSettings(DefaultChatTitle, opts)

	f, err := Inspect(fn)
	if err != nil {
		return nil, &component.ConfigurationError{Subject: "fn", Err: err}
	}

	chat := &ChatInterface{
		fn: f,
		config: ChatConfig{
			Title:           s.title,
			Description:     s.description,
			DescriptionHTML: component.RenderMarkdown(s.description),
			Placeholder:     s.placeholder,
			Autofocus:       s.autofocus,
			SaveHistory:     s.saveHistory,
			Theme:           s.theme,
		},
		logger: s.logger.With("component", "chat", "title", s.title),
	}
	chat.logger.Debug("chat interface created", "fn", f.Name(), "shape", f.Shape().String())
	return chat, nil
}

// Config returns the chat page config.
func (c *ChatInterface) Config() ChatConfig {
	return c.config
}

// Func returns the wrapped function.
func (c *ChatInterface) Func() *Func { return c.fn }

// Execute invokes the function with the message and a private copy of
// history, and returns the reply with history plus the new user and
// assistant entries.
func (c *ChatInterface) Execute(ctx context.Context, message string, history []Message) (string, []Message, error) {
	start := time.Now()
	prior := cloneHistory(history)

	values, err := c.fn.Call(ctx, []any{message, cloneHistory(prior)})
	if err != nil {
		c.logger.Debug("chat failed", "error", err, "duration", time.Since(start))
		return "", nil, err
	}

	reply := stringify(values)
	updated := append(prior,
		Message{Role: RoleUser, Content: message},
		Message{Role: RoleAssistant, Content: reply},
	)
	c.logger.Debug("chat completed", "turns", len(updated), "duration", time.Since(start))
	return reply, updated, nil
}

func stringify(values []any) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		switch v := values[0].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	default:
		return fmt.Sprint(values...)
	}
}
