// ABOUTME: Built-in component bindings and the lazily built default registry
// ABOUTME: Keeps package import free of side effects

package registry

import (
	"log/slog"
	"sync"

	"github.com/2389/chailab/internal/component"
)

// RegisterBuiltins binds the standard components into r.
func RegisterBuiltins(r *Registry) error {
	builtins := []Constructor{
		func() component.Component { return component.NewInput() },
		func() component.Component { return component.NewText() },
		func() component.Component { return component.NewLabel("") },
		func() component.Component { return component.NewSlider() },
		func() component.Component { return component.NewNumber() },
		func() component.Component { return component.NewCheckbox() },
		func() component.Component { return component.NewButton() },
		func() component.Component { return component.NewCard() },
		func() component.Component { return component.NewMarkdown() },
	}
	for _, ctor := range builtins {
		if err := r.Register(ctor, nil); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns a process-wide registry preloaded with the built-ins.
// Prefer an explicit registry passed through options when wiring an app.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New(slog.Default())
		if err := RegisterBuiltins(defaultReg); err != nil {
			panic(err)
		}
	})
	return defaultReg
}
