// ABOUTME: Functional options shared by Interface and ChatInterface
// ABOUTME: Options irrelevant to a flavor are ignored by it

package bridge

import (
	"log/slog"

	"github.com/2389/chailab/internal/registry"
)

const (
	DefaultTitle       = "ChaiLab Demo"
	DefaultChatTitle   = "ChaiLab Chat"
	DefaultPlaceholder = "Send a message…"
	DefaultTheme       = "default"
)

type settings struct {
	inputs      any
	outputs     any
	title       string
	description string
	article     string
	theme       string
	registry    *registry.Registry
	examples    [][]any
	logger      *slog.Logger

	placeholder string
	autofocus   bool
	saveHistory bool
}

// Option configures an Interface or ChatInterface.
type Option func(*settings)

// WithInputs sets the input spec: a component, an alias, or a slice of them.
func WithInputs(spec any) Option {
	return func(s *settings) { s.inputs = spec }
}

// WithOutputs sets the output spec. Defaults to a single text display.
func WithOutputs(spec any) Option {
	return func(s *settings) { s.outputs = spec }
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(s *settings) { s.title = title }
}

// WithDescription sets markdown shown under the title.
func WithDescription(desc string) Option {
	return func(s *settings) { s.description = desc }
}

// WithArticle sets markdown shown below the form.
func WithArticle(article string) Option {
	return func(s *settings) { s.article = article }
}

// WithTheme selects a theme by name.
func WithTheme(name string) Option {
	return func(s *settings) { s.theme = name }
}

// WithRegistry resolves string specs through reg instead of registry.Default().
func WithRegistry(reg *registry.Registry) Option {
	return func(s *settings) { s.registry = reg }
}

// WithExamples adds preset input rows. Each row must have one value per input.
func WithExamples(rows ...[]any) Option {
	return func(s *settings) { s.examples = append(s.examples, rows...) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithPlaceholder sets the chat composer placeholder.
func WithPlaceholder(text string) Option {
	return func(s *settings) { s.placeholder = text }
}

// WithAutofocus controls whether the chat composer grabs focus on load.
func WithAutofocus(on bool) Option {
	return func(s *settings) { s.autofocus = on }
}

// WithSaveHistory lets the chat client persist its transcript in local storage.
func WithSaveHistory(on bool) Option {
	return func(s *settings) { s.saveHistory = on }
}

func newSettings(title string, opts []Option) *settings {
	s := &settings{
		title:       title,
		theme:       DefaultTheme,
		placeholder: DefaultPlaceholder,
		autofocus:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.theme == "" {
		s.theme = DefaultTheme
	}
	return s
}
