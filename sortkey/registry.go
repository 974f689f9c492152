// ABOUTME: Named key selector registry used to build sort and group descriptions
// ABOUTME: Selectors are typed per media item variant and resolved by name from descriptors

// Package sortkey maps descriptor strings such as "GSongTitle|SongTitle" to
// collection sort and group descriptions over media items.
package sortkey

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"medialib/media"
)

var (
	// ErrKeyNotFound is returned when a descriptor names an unregistered key
	ErrKeyNotFound = errors.New("sort key not found")

	// ErrDuplicateKey is returned when registering a name twice
	ErrDuplicateKey = errors.New("sort key already registered")
)

// Selector extracts a sort key from an item
type Selector func(media.Item) any

// MismatchError reports a selector applied to an item of the wrong variant.
// It is raised as a panic: it means a descriptor was wired to the wrong page.
type MismatchError struct {
	Want string
	Item media.Item
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("sortkey: selector for %s applied to %s %q", e.Want, e.Item.Kind(), e.Item.String())
}

// For adapts a selector over one item variant to a Selector over all items
func For[V media.Item](fn func(V) any) Selector {
	return func(item media.Item) any {
		v, ok := item.(V)
		if !ok {
			var zero V

			panic(&MismatchError{Want: fmt.Sprintf("%T", zero), Item: item})
		}

		return fn(v)
	}
}

// Registry holds named selectors
type Registry struct {
	selectors map[string]Selector
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{selectors: make(map[string]Selector)}
}

// Register adds a selector under name
func (r *Registry) Register(name string, sel Selector) error {
	if _, exists := r.selectors[name]; exists {
		return fmt.Errorf("%q: %w", name, ErrDuplicateKey)
	}

	r.selectors[name] = sel

	return nil
}

// MustRegister is Register for startup wiring; it panics on a duplicate name
func (r *Registry) MustRegister(name string, sel Selector) {
	if err := r.Register(name, sel); err != nil {
		panic(err)
	}
}

// Get returns the selector registered under name
func (r *Registry) Get(name string) (Selector, error) {
	sel, ok := r.selectors[name]
	if !ok {
		if i := slices.IndexFunc(r.Names(), func(n string) bool { return strings.EqualFold(n, name) }); i >= 0 {
			return nil, fmt.Errorf("%q: %w (did you mean %q?)", name, ErrKeyNotFound, r.Names()[i])
		}

		return nil, fmt.Errorf("%q: %w", name, ErrKeyNotFound)
	}

	return sel, nil
}

// TryGet returns the selector registered under name, if any
func (r *Registry) TryGet(name string) (Selector, bool) {
	sel, ok := r.selectors[name]

	return sel, ok
}

// Names returns the registered names in lexical order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.selectors))
	for name := range r.selectors {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
