// ABOUTME: Thread-safe alias registry mapping case-folded names to component constructors
// ABOUTME: Rejects alias conflicts between different canonical types

package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/2389/chailab/internal/component"
)

// ErrAliasConflict indicates an alias is already bound to a different canonical type.
var ErrAliasConflict = errors.New("component alias conflict")

// ErrInvalidRegistration indicates a nil constructor or an empty canonical type.
var ErrInvalidRegistration = errors.New("invalid component registration")

// Constructor builds a fresh component with default props.
type Constructor func() component.Component

type entry struct {
	canonical string
	ctor      Constructor
	aliases   []string // folded, includes canonical
}

// Registry maps aliases and canonical type names to constructors.
type Registry struct {
	mu      sync.RWMutex
	byAlias map[string]*entry
	byType  map[string]*entry
	logger  *slog.Logger
}

// New creates an empty Registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byAlias: make(map[string]*entry),
		byType:  make(map[string]*entry),
		logger:  logger.With("component", "registry"),
	}
}

// Register binds the canonical type and every alias to ctor. When aliases is
// empty the component's own Aliases() are used; when canonicalType is omitted
// the component's Type() is used. Re-registering a canonical type replaces
// its previous entry. Returns ErrAliasConflict if any alias already belongs
// to a different canonical type; nothing is bound in that case.
func (r *Registry) Register(ctor Constructor, aliases []string, canonicalType ...string) error {
	if ctor == nil {
		return fmt.Errorf("%w: nil constructor", ErrInvalidRegistration)
	}

	var canonical string
	if len(canonicalType) > 0 {
		canonical = fold(canonicalType[0])
	}
	if canonical == "" || len(aliases) == 0 {
		sample := ctor()
		if sample == nil {
			return fmt.Errorf("%w: constructor returned nil", ErrInvalidRegistration)
		}
		if canonical == "" {
			canonical = fold(sample.Type())
		}
		if len(aliases) == 0 {
			aliases = sample.Aliases()
		}
	}
	if canonical == "" {
		return fmt.Errorf("%w: empty canonical type", ErrInvalidRegistration)
	}

	names := []string{canonical}
	for _, a := range aliases {
		if a = fold(a); a != "" && !slices.Contains(names, a) {
			names = append(names, a)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if existing, ok := r.byAlias[name]; ok && existing.canonical != canonical {
			return fmt.Errorf("%w: alias '%s' already bound to '%s'",
				ErrAliasConflict, name, existing.canonical)
		}
	}

	if old, ok := r.byType[canonical]; ok {
		for _, name := range old.aliases {
			delete(r.byAlias, name)
		}
		r.logger.Debug("replacing component registration", "type", canonical)
	}

	e := &entry{canonical: canonical, ctor: ctor, aliases: names}
	r.byType[canonical] = e
	for _, name := range names {
		r.byAlias[name] = e
	}

	r.logger.Debug("registered component", "type", canonical, "aliases", names)
	return nil
}

// MustRegister is Register for init-time use; it panics on error.
func (r *Registry) MustRegister(ctor Constructor, aliases []string, canonicalType ...string) {
	if err := r.Register(ctor, aliases, canonicalType...); err != nil {
		panic(err)
	}
}

// Resolve turns key into a component instance. Strings are case-folded and
// looked up; components pass through unchanged; constructors are invoked.
func (r *Registry) Resolve(key any) (component.Component, error) {
	switch k := key.(type) {
	case string:
		return r.lookup(k)
	case component.Component:
		return k, nil
	case Constructor:
		return construct(k)
	case func() component.Component:
		return construct(k)
	case nil:
		return nil, &component.UnknownComponentError{Key: "<nil>"}
	default:
		return nil, &component.UnknownComponentError{Key: fmt.Sprintf("%T", key)}
	}
}

func (r *Registry) lookup(name string) (component.Component, error) {
	r.mu.RLock()
	e, ok := r.byAlias[fold(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &component.UnknownComponentError{Key: name}
	}
	return construct(e.ctor)
}

func construct(ctor Constructor) (component.Component, error) {
	c := ctor()
	if c == nil {
		return nil, fmt.Errorf("%w: constructor returned nil", ErrInvalidRegistration)
	}
	return c, nil
}

// Has reports whether name is bound.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byAlias[fold(name)]
	return ok
}

// RegisteredTypes returns the unique canonical types, sorted.
func (r *Registry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Aliases returns every name bound to canonical, or nil if it is not registered.
func (r *Registry) Aliases(canonical string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byType[fold(canonical)]
	if !ok {
		return nil
	}
	return slices.Clone(e.aliases)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
