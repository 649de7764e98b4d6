// Package registry maps names to factories. A registry knows every implementation of one kind
// of component by its identity and can additionally map short aliases to identities.
package registry

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrUnknown is wrapped by the ConfigError returned for names that resolve to nothing.
var ErrUnknown = errors.New("unknown name")

// ConfigError reports a name that could not be turned into a component.
type ConfigError struct {
	Kind string // kind of component, e.g. "encoder"
	Name string // name as requested
	Err  error
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", err.Kind, err.Name, err.Err)
}

func (err *ConfigError) Unwrap() error { return err.Err }

// Registry holds the factories of one kind of component. Registries are populated during
// package initialization and are safe for concurrent reads afterwards.
type Registry[T any] struct {
	kind      string
	factories map[string]func() (T, error)
	aliases   map[string]string
}

// New creates an empty registry for components of the given kind.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:      kind,
		factories: make(map[string]func() (T, error)),
		aliases:   make(map[string]string),
	}
}

// Register adds a factory under identity. It panics if identity is already registered.
func (r *Registry[T]) Register(identity string, factory func() (T, error)) {
	if _, ok := r.factories[identity]; ok {
		panic(fmt.Sprintf("%s %q registered twice", r.kind, identity))
	}
	r.factories[identity] = factory
}

// Alias makes alias resolve to identity.
func (r *Registry[T]) Alias(alias, identity string) {
	r.aliases[alias] = identity
}

// Resolve returns the identity name refers to. Aliases are looked up first, any other name is
// taken as an identity.
func (r *Registry[T]) Resolve(name string) (string, error) {
	identity := name
	if id, ok := r.aliases[name]; ok {
		identity = id
	}
	if _, ok := r.factories[identity]; !ok {
		return "", &ConfigError{Kind: r.kind, Name: name, Err: ErrUnknown}
	}
	return identity, nil
}

// New creates the component name refers to.
func (r *Registry[T]) New(name string) (T, error) {
	identity, err := r.Resolve(name)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := r.factories[identity]()
	if err != nil {
		var zero T
		return zero, &ConfigError{Kind: r.kind, Name: name, Err: err}
	}
	return v, nil
}

// Entry describes a registered identity and its aliases.
type Entry struct {
	Identity string
	Aliases  []string
}

// Entries returns all registered identities with their aliases, sorted by identity.
func (r *Registry[T]) Entries() []Entry {
	var out []Entry
	for id := range r.factories {
		var aliases []string
		for alias, target := range r.aliases {
			if target == id {
				aliases = append(aliases, alias)
			}
		}
		slices.Sort(aliases)
		out = append(out, Entry{Identity: id, Aliases: aliases})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Identity, b.Identity) })
	return out
}

// Kind returns the kind of component in the registry.
func (r *Registry[T]) Kind() string { return r.kind }
