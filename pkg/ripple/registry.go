package ripple

import (
	"strings"
	"sync"

	"github.com/thomsbg/ripple/internal/errors"
	"github.com/thomsbg/ripple/pkg/dom"
)

// DirectiveFunc is an attribute-matched behavior. It is invoked once at
// bind time with the owning view, the element carrying the attribute, and
// the attribute's raw value, and is responsible for calling view.Watch /
// view.Set as needed to stay live.
type DirectiveFunc func(v *View, node *dom.Node, value string)

// FilterFunc is a pure transform applied to an interpolated value before
// insertion, e.g. {{name|uppercase}}.
type FilterFunc func(value any) any

// directiveEntry records one pattern-directive registration.
// Registration order is the tie-break when multiple patterns match.
type directiveEntry struct {
	prefix string // matcher with the trailing "*" removed
	fn     DirectiveFunc
}

// Registry holds the directives, components, and filters in effect for a
// view tree. It is shared by reference across the whole tree unless a child
// family is given its own registry. Registration is expected during setup;
// steady-state rendering only reads.
//
// Directive matchers are either exact attribute names ("each") or prefix
// patterns ending in "*" ("data-*"). An exact match always wins over a
// pattern match; among matching patterns, the first registered wins.
type Registry struct {
	mu         sync.RWMutex
	exact      map[string]DirectiveFunc
	patterns   []directiveEntry
	components map[string]*Family
	filters    map[string]FilterFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		exact:      make(map[string]DirectiveFunc),
		components: make(map[string]*Family),
		filters:    make(map[string]FilterFunc),
	}
}

// Directive registers a handler for an attribute matcher. Registering the
// same matcher twice fails with a directive error.
func (r *Registry) Directive(matcher string, fn DirectiveFunc) error {
	if matcher == "" || fn == nil {
		return errors.Newf(errors.CategoryDirective, "empty directive registration")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.HasSuffix(matcher, "*") {
		prefix := strings.TrimSuffix(matcher, "*")
		for _, e := range r.patterns {
			if e.prefix == prefix {
				return errors.New("R040").WithDetail("matcher %q", matcher)
			}
		}
		r.patterns = append(r.patterns, directiveEntry{prefix: prefix, fn: fn})
		return nil
	}

	if _, ok := r.exact[matcher]; ok {
		return errors.New("R040").WithDetail("matcher %q", matcher)
	}
	r.exact[matcher] = fn
	return nil
}

// Component registers a sub-view family under a custom element name.
// Binding an element with that tag composes a child view in its place.
func (r *Registry) Component(name string, f *Family) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[strings.ToLower(name)] = f
}

// Filter registers a named interpolation filter.
func (r *Registry) Filter(name string, fn FilterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = fn
}

// matchDirective resolves the handler for an attribute name.
// Exact match beats pattern match; first-registered pattern wins ties.
func (r *Registry) matchDirective(attr string) (DirectiveFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.exact[attr]; ok {
		return fn, true
	}
	for _, e := range r.patterns {
		if strings.HasPrefix(attr, e.prefix) {
			return e.fn, true
		}
	}
	return nil, false
}

// component resolves the family registered for a tag name, if any.
func (r *Registry) component(tag string) (*Family, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.components[tag]
	return f, ok
}

// filter resolves a named filter, if registered.
func (r *Registry) filter(name string) (FilterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	return fn, ok
}
