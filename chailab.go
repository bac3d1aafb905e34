// ABOUTME: Public API for building chailab apps from Go functions
// ABOUTME: Thin aliases over the internal bridge, component, webui and launcher packages

// Package chailab turns plain Go functions into small web apps.
//
//	demo, err := chailab.NewInterface(greet,
//		chailab.WithInputs([]string{"text", "slider"}),
//		chailab.WithTitle("Greeter"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(demo.Launch(ctx, chailab.LaunchOptions{}))
package chailab

import (
	"context"
	"net/http"
	"sync"

	"github.com/2389/chailab/internal/bridge"
	"github.com/2389/chailab/internal/component"
	"github.com/2389/chailab/internal/launcher"
	"github.com/2389/chailab/internal/registry"
	"github.com/2389/chailab/internal/webui"
)

type (
	Option          = bridge.Option
	ComponentOption = component.Option
	Message         = bridge.Message
	Component       = component.Component
	LaunchOptions   = launcher.LaunchOptions
	State           = launcher.State

	ConfigurationError     = component.ConfigurationError
	UnknownComponentError  = component.UnknownComponentError
	RequestValidationError = bridge.RequestValidationError
	HandlerError           = bridge.HandlerError
	StartupTimeoutError    = launcher.StartupTimeoutError
)

const (
	RoleUser      = bridge.RoleUser
	RoleAssistant = bridge.RoleAssistant
	AnyPort       = launcher.AnyPort
)

var (
	WithInputs      = bridge.WithInputs
	WithOutputs     = bridge.WithOutputs
	WithTitle       = bridge.WithTitle
	WithDescription = bridge.WithDescription
	WithArticle     = bridge.WithArticle
	WithTheme       = bridge.WithTheme
	WithExamples    = bridge.WithExamples
	WithLogger      = bridge.WithLogger
	WithPlaceholder = bridge.WithPlaceholder
	WithAutofocus   = bridge.WithAutofocus
	WithSaveHistory = bridge.WithSaveHistory

	Bool = launcher.Bool
)

// Component constructors and their prop options.
var (
	NewInput    = component.NewInput
	NewText     = component.NewText
	NewNumber   = component.NewNumber
	NewCheckbox = component.NewCheckbox
	NewSlider   = component.NewSlider
	NewMarkdown = component.NewMarkdown
	NewButton   = component.NewButton
	NewLabel    = component.NewLabel
	NewCard     = component.NewCard

	Label       = component.WithLabel
	Value       = component.WithValue
	Prop        = component.WithProp
	Range       = component.WithRange
	Disabled    = component.WithDisabled
	Placeholder = component.WithPlaceholder
)

// Register adds a custom component type to the default registry.
func Register(ctor func() Component, aliases ...string) error {
	return registry.Default().Register(ctor, aliases)
}

// Interface is a form app.
type Interface struct {
	*bridge.Interface
	app
}

// NewInterface wraps fn as a form app.
func NewInterface(fn any, opts ...Option) (*Interface, error) {
	iface, err := bridge.NewInterface(fn, opts...)
	if err != nil {
		return nil, err
	}
	cfg := iface.Config()
	return &Interface{
		Interface: iface,
		app: app{
			handler: webui.NewInterfaceHandler(iface, webui.Options{}),
			opts:    launcher.Options{Title: cfg.Title, Description: cfg.Description},
		},
	}, nil
}

// ChatInterface is a chat app.
type ChatInterface struct {
	*bridge.ChatInterface
	app
}

// NewChatInterface wraps fn(message, history) as a chat app.
func NewChatInterface(fn any, opts ...Option) (*ChatInterface, error) {
	chat, err := bridge.NewChatInterface(fn, opts...)
	if err != nil {
		return nil, err
	}
	cfg := chat.Config()
	return &ChatInterface{
		ChatInterface: chat,
		app: app{
			handler: webui.NewChatHandler(chat, webui.Options{}),
			opts:    launcher.Options{Title: cfg.Title, Description: cfg.Description},
		},
	}, nil
}

// app holds the HTTP side shared by both flavors. Each Launch uses a fresh
// server, so an app can be launched again after Close.
type app struct {
	handler http.Handler
	opts    launcher.Options

	mu     sync.Mutex
	server *launcher.Server
}

// Handler returns the app's HTTP handler for mounting in another server.
func (a *app) Handler() http.Handler { return a.handler }

// Launch serves the app. See launcher.Server.Launch for blocking behavior.
func (a *app) Launch(ctx context.Context, opts LaunchOptions) error {
	a.mu.Lock()
	if a.server != nil && a.server.State() == launcher.StateListening {
		a.mu.Unlock()
		return launcher.ErrAlreadyStarted
	}
	srv := launcher.New(a.handler, a.opts)
	a.server = srv
	a.mu.Unlock()

	return srv.Launch(ctx, opts)
}

// Close stops a non-blocking launch. It is a no-op when nothing is running.
func (a *app) Close() error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Close()
}

// URL returns the URL of the last launch, or "".
func (a *app) URL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server == nil {
		return ""
	}
	return a.server.URL()
}
