package ripple

import (
	"reflect"
	"sync"
)

// Watcher is a callback invoked when a watched key changes.
// It receives the new and previous values.
type Watcher func(newValue, oldValue any)

// watcherEntry pairs a watcher with a registration ID. IDs make removal
// exact: closures created from the same function literal share a code
// pointer, so pointer comparison alone cannot distinguish them.
type watcherEntry struct {
	id uint64
	fn Watcher
}

// notification is one pending watcher pass for a key.
type notification struct {
	key string
	new any
	old any
}

// Model is an observable key/value store. Watchers are kept per key in
// registration order and notified in that order.
//
// Set notifies only when the value actually changed; writing an equal value
// is a no-op. Equality follows the same policy the scheduler's coalescing
// relies on: == for common scalar types, reflect.DeepEqual otherwise.
//
// A watcher may call Set again. Re-entrant sets are applied to the store
// immediately but their notification pass is queued behind the current one,
// so passes run in the order the sets were issued and never recurse.
type Model struct {
	mu        sync.Mutex
	props     map[string]any
	watchers  map[string][]watcherEntry
	queue     []notification
	notifying bool
	destroyed bool
}

// NewModel creates a model seeded with the given data. A nil map is allowed.
func NewModel(data map[string]any) *Model {
	props := make(map[string]any, len(data))
	for k, v := range data {
		props[k] = v
	}
	return &Model{
		props:    props,
		watchers: make(map[string][]watcherEntry),
	}
}

// Get returns the value for key and whether it is defined.
func (m *Model) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.props[key]
	return v, ok
}

// Has reports whether key is defined.
func (m *Model) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores value under key and, if the value changed, notifies the key's
// watchers synchronously in registration order.
func (m *Model) Set(key string, value any) {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}

	old, had := m.props[key]
	if had && valueEquals(old, value) {
		m.mu.Unlock()
		return
	}
	m.props[key] = value
	m.queue = append(m.queue, notification{key: key, new: value, old: old})

	if m.notifying {
		// Re-entrant set from a watcher: the outer pass drains the queue.
		m.mu.Unlock()
		return
	}
	m.notifying = true
	m.mu.Unlock()

	m.drain()
}

// drain runs queued notification passes until none remain.
func (m *Model) drain() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 || m.destroyed {
			m.queue = nil
			m.notifying = false
			m.mu.Unlock()
			return
		}
		n := m.queue[0]
		m.queue = m.queue[1:]

		// Copy-before-notify: watchers may register or remove watchers.
		entries := make([]watcherEntry, len(m.watchers[n.key]))
		copy(entries, m.watchers[n.key])
		m.mu.Unlock()

		for _, e := range entries {
			e.fn(n.new, n.old)
		}
	}
}

// Watch appends fn to key's watcher list and returns a registration ID
// usable with UnwatchID for exact removal.
func (m *Model) Watch(key string, fn Watcher) uint64 {
	if fn == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return 0
	}
	id := nextID()
	m.watchers[key] = append(m.watchers[key], watcherEntry{id: id, fn: fn})
	return id
}

// Unwatch removes the first watcher for key whose function matches fn.
// Removing an unknown callback is a no-op.
func (m *Model) Unwatch(key string, fn Watcher) {
	ptr := reflect.ValueOf(fn).Pointer()
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.watchers[key]
	for i, e := range entries {
		if reflect.ValueOf(e.fn).Pointer() == ptr {
			m.watchers[key] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// UnwatchID removes the watcher registered under id for key.
func (m *Model) UnwatchID(key string, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.watchers[key]
	for i, e := range entries {
		if e.id == id {
			m.watchers[key] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// WatcherCount returns the number of watchers registered for key.
func (m *Model) WatcherCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watchers[key])
}

// Destroy releases all props and watcher lists without notifying anyone.
// Destroy is terminal; subsequent Set calls are no-ops and Get returns
// nothing.
func (m *Model) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	m.props = nil
	m.watchers = nil
	m.queue = nil
}

// valueEquals provides type-appropriate equality checking.
// Uses == for common scalar types and reflect.DeepEqual for others.
func valueEquals(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
