package mapkey

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry records which Go types are map key types and how each one yields
// its key. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	modes map[reflect.Type]UnwrapMode
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		modes: make(map[reflect.Type]UnwrapMode),
	}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry. The builtin key types
// are registered in it.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// Register marks t as a map key type with the given mode. Registering a type
// again with the same mode is a no-op; a different mode is an error.
func (r *Registry) Register(t reflect.Type, mode UnwrapMode) error {
	if t == nil {
		return fmt.Errorf("cannot register a nil map key type")
	}
	if mode != UnwrapValue && mode != UseAnnotation {
		return fmt.Errorf("invalid unwrap mode %d for %s", mode, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.modes[t]; exists {
		if existing != mode {
			return fmt.Errorf("map key type %s is already registered with mode %s", t, existing)
		}
		return nil
	}

	r.modes[t] = mode
	return nil
}

// MustRegister is like Register but panics on error. Generated registration
// code calls it from init functions.
func (r *Registry) MustRegister(t reflect.Type, mode UnwrapMode) {
	if err := r.Register(t, mode); err != nil {
		panic(err)
	}
}

// RegisterKey registers the type parameter K as a map key type
func RegisterKey[K any](r *Registry, mode UnwrapMode) error {
	return r.Register(reflect.TypeOf((*K)(nil)).Elem(), mode)
}

// Mode returns the unwrap mode registered for t
func (r *Registry) Mode(t reflect.Type) (UnwrapMode, bool) {
	if t == nil {
		return 0, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if mode, exists := r.modes[t]; exists {
		return mode, true
	}
	// A pointer to a registered key type is the same key type
	if t.Kind() == reflect.Pointer {
		mode, exists := r.modes[t.Elem()]
		return mode, exists
	}
	return 0, false
}

// IsMapKey reports whether v's type is a registered map key type
func (r *Registry) IsMapKey(v any) bool {
	_, ok := r.Mode(reflect.TypeOf(v))
	return ok
}

// Types returns all registered map key types sorted by name
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]reflect.Type, 0, len(r.modes))
	for t := range r.modes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}

// Register marks t as a map key type in the default registry
func Register(t reflect.Type, mode UnwrapMode) error {
	return DefaultRegistry().Register(t, mode)
}

// MustRegister marks t as a map key type in the default registry and panics on error
func MustRegister(t reflect.Type, mode UnwrapMode) {
	DefaultRegistry().MustRegister(t, mode)
}
