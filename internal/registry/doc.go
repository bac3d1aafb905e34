// Package registry maps component names to constructors.
//
// Names are case-insensitive. Each registration binds a canonical type plus
// its aliases to one constructor:
//
//	reg := registry.New(logger)
//	if err := registry.RegisterBuiltins(reg); err != nil { ... }
//	c, err := reg.Resolve("TextBox") // *component.Input
//
// Binding an alias that already belongs to another canonical type fails with
// ErrAliasConflict. Registering the same canonical type again replaces its
// entry, dropping aliases the new registration no longer names.
//
// Resolve accepts a string, a component.Component (returned as is), or a
// constructor (invoked). Misses return *component.UnknownComponentError.
//
// Default returns a lazily built shared registry for call sites that do not
// pass their own.
package registry
