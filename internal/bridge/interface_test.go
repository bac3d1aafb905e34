// ABOUTME: Tests for Interface construction, config rendering, and result shaping
// ABOUTME: Also covers component normalization and ChatInterface transcripts

package bridge

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chailab/internal/component"
	"github.com/2389/chailab/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(slog.Default())
	require.NoError(t, registry.RegisterBuiltins(reg))
	return reg
}

func greet(name string, n int) string {
	return strings.Repeat(name, n)
}

func TestInterfaceConfig(t *testing.T) {
	iface, err := NewInterface(greet,
		WithRegistry(testRegistry(t)),
		WithInputs([]any{"text", component.NewSlider(component.WithRange(1, 10, 1), component.WithValue(3))}),
		WithOutputs("text"),
		WithDescription("Say *hello*"),
	)
	require.NoError(t, err)

	cfg := iface.Config()
	assert.Equal(t, DefaultTitle, cfg.Title)
	assert.Equal(t, "default", cfg.Theme)
	assert.Contains(t, cfg.DescriptionHTML, "<em>hello</em>")

	require.Len(t, cfg.Components.Inputs, 2)
	assert.Equal(t, "input_0", cfg.Components.Inputs[0].ID)
	assert.Equal(t, "input", cfg.Components.Inputs[0].Type)
	assert.Equal(t, "input_1", cfg.Components.Inputs[1].ID)
	assert.Equal(t, "slider", cfg.Components.Inputs[1].Type)
	assert.Equal(t, []float64{3}, cfg.Components.Inputs[1].Props["value"])

	require.Len(t, cfg.Components.Outputs, 1)
	assert.Equal(t, "output_0", cfg.Components.Outputs[0].ID)

	assert.Equal(t, cfg, iface.Config(), "renders are deterministic")
}

func TestInterfaceExecute(t *testing.T) {
	reg := testRegistry(t)

	t.Run("single result wraps", func(t *testing.T) {
		iface, err := NewInterface(greet, WithRegistry(reg), WithInputs([]string{"text", "slider"}))
		require.NoError(t, err)

		out, err := iface.Execute(context.Background(), []any{"Ada", 3.0})
		require.NoError(t, err)
		assert.Equal(t, []any{"AdaAdaAda"}, out)
	})

	t.Run("slice result used as is", func(t *testing.T) {
		iface, err := NewInterface(func(s string) []string { return strings.Split(s, ",") },
			WithRegistry(reg), WithInputs("text"), WithOutputs([]string{"text", "text"}))
		require.NoError(t, err)

		out, err := iface.Execute(context.Background(), []any{"a,b"})
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, out)
	})

	t.Run("multiple returns become a list", func(t *testing.T) {
		iface, err := NewInterface(func(a, b float64) (float64, float64, error) { return a + b, a * b, nil },
			WithRegistry(reg), WithInputs([]string{"number", "number"}), WithOutputs([]string{"number", "number"}))
		require.NoError(t, err)

		out, err := iface.Execute(context.Background(), []any{2.0, 5.0})
		require.NoError(t, err)
		assert.Equal(t, []any{7.0, 10.0}, out)
	})

	t.Run("generator joined", func(t *testing.T) {
		iface, err := NewInterface(func(s string) iter.Seq[string] {
			return func(yield func(string) bool) {
				for _, r := range s {
					if !yield(strings.ToUpper(string(r))) {
						return
					}
				}
			}
		}, WithRegistry(reg), WithInputs("text"))
		require.NoError(t, err)

		out, err := iface.Execute(context.Background(), []any{"abc"})
		require.NoError(t, err)
		assert.Equal(t, []any{"ABC"}, out)
	})

	t.Run("markdown outputs are rendered without raw html", func(t *testing.T) {
		result := []any{"", ""}
		iface, err := NewInterface(func(s string) []any {
			result[0], result[1] = s, s
			return result
		}, WithRegistry(reg), WithInputs("text"), WithOutputs([]string{"markdown", "text"}))
		require.NoError(t, err)

		src := "# Hi <img src=x onerror=alert(1)>"
		out, err := iface.Execute(context.Background(), []any{src})
		require.NoError(t, err)
		require.Len(t, out, 2)

		html, ok := out[0].(string)
		require.True(t, ok)
		assert.Contains(t, html, "<h1>Hi")
		assert.NotContains(t, html, "onerror")
		assert.NotContains(t, html, "<img")
		assert.Equal(t, src, out[1])
		assert.Equal(t, src, result[0], "caller's slice must not be rewritten")
	})

	t.Run("non-string markdown values are stringified", func(t *testing.T) {
		iface, err := NewInterface(func(n float64) float64 { return n * 2 },
			WithRegistry(reg), WithInputs("number"), WithOutputs("markdown"))
		require.NoError(t, err)

		out, err := iface.Execute(context.Background(), []any{21.0})
		require.NoError(t, err)
		assert.Equal(t, []any{"<p>42</p>\n"}, out)
	})

	t.Run("handler error", func(t *testing.T) {
		iface, err := NewInterface(func(string) (string, error) { return "", errors.New("boom") },
			WithRegistry(reg), WithInputs("text"))
		require.NoError(t, err)

		_, err = iface.Execute(context.Background(), []any{"x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrHandler))
		assert.Equal(t, "boom", err.Error())
	})
}

func TestInterfaceDefaultsToTextOutput(t *testing.T) {
	iface, err := NewInterface(strings.ToUpper, WithRegistry(testRegistry(t)), WithInputs("text"))
	require.NoError(t, err)

	outs := iface.Config().Components.Outputs
	require.Len(t, outs, 1)
	assert.Equal(t, "text", outs[0].Type)
}

func TestInterfaceConfigurationErrors(t *testing.T) {
	reg := testRegistry(t)

	t.Run("unknown input", func(t *testing.T) {
		_, err := NewInterface(greet, WithRegistry(reg), WithInputs([]string{"text", "video"}))
		require.Error(t, err)
		assert.True(t, errors.Is(err, component.ErrConfiguration))
		assert.True(t, errors.Is(err, component.ErrUnknownComponent))
		assert.Contains(t, err.Error(), "inputs[1]")
	})

	t.Run("not a function", func(t *testing.T) {
		_, err := NewInterface("greet", WithRegistry(reg))
		assert.True(t, errors.Is(err, component.ErrConfiguration))
		assert.True(t, errors.Is(err, ErrUnsupportedFunc))
	})

	t.Run("example row arity", func(t *testing.T) {
		_, err := NewInterface(greet, WithRegistry(reg),
			WithInputs([]string{"text", "slider"}),
			WithExamples([]any{"Ada", 3}, []any{"Bob"}),
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "examples[1]")
	})

	t.Run("unserializable prop", func(t *testing.T) {
		_, err := NewInterface(greet, WithRegistry(reg),
			WithInputs(component.NewInput(component.WithProp("bad", make(chan int)))))
		assert.True(t, errors.Is(err, component.ErrNotSerializable))
	})
}

func TestNormalizeComponents(t *testing.T) {
	reg := testRegistry(t)

	t.Run("scalar wraps", func(t *testing.T) {
		cs, err := NormalizeComponents(reg, SideInputs, "textbox")
		require.NoError(t, err)
		require.Len(t, cs, 1)
		assert.Equal(t, "input", cs[0].Type())
	})

	t.Run("output synonyms fall back to text", func(t *testing.T) {
		cs, err := NormalizeComponents(reg, SideOutputs, []string{"str", "STRING"})
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, "text", cs[0].Type())
		assert.Equal(t, "text", cs[1].Type())
	})

	t.Run("registered synonyms are still text outputs", func(t *testing.T) {
		cs, err := NormalizeComponents(reg, SideOutputs, []string{"textbox", "label", "Output"})
		require.NoError(t, err)
		require.Len(t, cs, 3)
		for _, c := range cs {
			assert.Equal(t, "text", c.Type())
		}
	})

	t.Run("synonyms keep their meaning as inputs", func(t *testing.T) {
		cs, err := NormalizeComponents(reg, SideInputs, []string{"textbox", "label"})
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, "input", cs[0].Type())
		assert.Equal(t, "label", cs[1].Type())
	})

	t.Run("text inputs become text boxes", func(t *testing.T) {
		cs, err := NormalizeComponents(reg, SideInputs, []string{"text", "Str"})
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, "input", cs[0].Type())
		assert.Equal(t, "input", cs[1].Type())
	})

	t.Run("unknown input names the position", func(t *testing.T) {
		_, err := NormalizeComponents(reg, SideInputs, []string{"text", "video"})
		require.Error(t, err)
		var cfgErr *component.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "inputs[1]", cfgErr.Subject)
	})

	t.Run("mixed entries", func(t *testing.T) {
		in := component.NewCheckbox()
		cs, err := NormalizeComponents(reg, SideInputs, []any{
			in,
			"md",
			registry.Constructor(func() component.Component { return component.NewNumber() }),
		})
		require.NoError(t, err)
		require.Len(t, cs, 3)
		assert.Same(t, in, cs[0])
		assert.Equal(t, "markdown", cs[1].Type())
		assert.Equal(t, "number", cs[2].Type())
	})

	t.Run("nil is empty", func(t *testing.T) {
		cs, err := NormalizeComponents(reg, SideOutputs, nil)
		require.NoError(t, err)
		assert.Empty(t, cs)
	})

	t.Run("unsupported entry", func(t *testing.T) {
		_, err := NormalizeComponents(reg, SideOutputs, []any{"text", 3.5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outputs[1]")
	})
}

func TestChatExecute(t *testing.T) {
	t.Run("generator reply", func(t *testing.T) {
		chat, err := NewChatInterface(func(msg string, history []Message) iter.Seq[string] {
			return func(yield func(string) bool) {
				for _, s := range []string{"a", "b", "c"} {
					if !yield(s) {
						return
					}
				}
			}
		})
		require.NoError(t, err)

		reply, history, err := chat.Execute(context.Background(), "hi", []Message{})
		require.NoError(t, err)
		assert.Equal(t, "abc", reply)
		assert.Equal(t, []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "abc"},
		}, history)
	})

	t.Run("history is copied", func(t *testing.T) {
		prior := []Message{{Role: RoleUser, Content: "one"}, {Role: RoleAssistant, Content: "two"}}
		chat, err := NewChatInterface(func(msg string, history []Message) string {
			history[0].Content = "mutated"
			return msg + "!"
		})
		require.NoError(t, err)

		reply, history, err := chat.Execute(context.Background(), "three", prior)
		require.NoError(t, err)
		assert.Equal(t, "three!", reply)
		require.Len(t, history, 4)
		assert.Equal(t, "one", history[0].Content)
		assert.Equal(t, "one", prior[0].Content)
		assert.Equal(t, Message{Role: RoleAssistant, Content: "three!"}, history[3])
	})

	t.Run("nil reply is empty", func(t *testing.T) {
		chat, err := NewChatInterface(func(string) any { return nil })
		require.NoError(t, err)

		reply, history, err := chat.Execute(context.Background(), "hi", nil)
		require.NoError(t, err)
		assert.Equal(t, "", reply)
		assert.Len(t, history, 2)
	})

	t.Run("history decoded into maps", func(t *testing.T) {
		chat, err := NewChatInterface(func(msg string, history []map[string]string) int { return len(history) })
		require.NoError(t, err)

		reply, _, err := chat.Execute(context.Background(), "hi", []Message{{Role: RoleUser, Content: "x"}})
		require.NoError(t, err)
		assert.Equal(t, "1", reply)
	})
}

func TestChatConfigDefaults(t *testing.T) {
	chat, err := NewChatInterface(func(string) string { return "" })
	require.NoError(t, err)

	cfg := chat.Config()
	assert.Equal(t, DefaultChatTitle, cfg.Title)
	assert.Equal(t, DefaultPlaceholder, cfg.Placeholder)
	assert.True(t, cfg.Autofocus)
	assert.False(t, cfg.SaveHistory)
	assert.Equal(t, "default", cfg.Theme)
}
