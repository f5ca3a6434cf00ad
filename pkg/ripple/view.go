package ripple

import (
	"log/slog"
	"reflect"

	"github.com/thomsbg/ripple/internal/errors"
	"github.com/thomsbg/ripple/pkg/dom"
	"github.com/thomsbg/ripple/pkg/metrics"
)

// State is a view's lifecycle state.
type State uint8

const (
	StateConstructing State = iota + 1
	StateCreated
	StateReady
	StateMounted
	StateUnmounted
	StateDestroyed
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateConstructing:
		return "constructing"
	case StateCreated:
		return "created"
	case StateReady:
		return "ready"
	case StateMounted:
		return "mounted"
	case StateUnmounted:
		return "unmounted"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// scopeWatcher records a watcher this view registered on an ancestor model
// because the key was locally undefined. Set migrates these to the local
// model when the key becomes locally owned; Destroy unregisters them.
type scopeWatcher struct {
	id    uint64
	fn    Watcher
	model *Model
}

// View is a bound DOM subtree plus its own observable data store and
// lifecycle. Views compose: a component tag in a template creates a child
// view whose owner is the composing view and whose scope chain falls back
// to the owner's data.
//
// A view and its model belong to a single goroutine at a time; the
// embedding runtime (an event loop, a session) serializes access the way
// a browser's main thread would.
type View struct {
	id     uint64
	family *Family

	model    *Model
	bindings *Registry
	sched    *Scheduler
	doc      *dom.Document

	el       *dom.Node
	owner    *View
	scope    *View
	root     *View
	children []*View

	scopeWatchers map[string][]scopeWatcher
	hooks         map[Event][]HookFunc

	state      State
	destroying bool

	logger    *slog.Logger
	collector *metrics.Collector
}

// ID returns the view's unique identifier.
func (v *View) ID() uint64 {
	return v.id
}

// El returns the view's root element. Nil after Destroy.
func (v *View) El() *dom.Node {
	return v.el
}

// Owner returns the view that composed this one, or nil.
func (v *View) Owner() *View {
	return v.owner
}

// Root returns the top-most view in the ownership chain (itself when it
// has no owner).
func (v *View) Root() *View {
	return v.root
}

// Children returns a copy of the view's child list in composition order.
func (v *View) Children() []*View {
	out := make([]*View, len(v.children))
	copy(out, v.children)
	return out
}

// State returns the view's lifecycle state.
func (v *View) State() State {
	return v.state
}

// IsMounted reports whether the view is currently mounted.
func (v *View) IsMounted() bool {
	return v.state == StateMounted
}

// Scheduler returns the scheduler this view's bindings write through.
func (v *View) Scheduler() *Scheduler {
	return v.sched
}

// Bindings returns the registry in effect for this view.
func (v *View) Bindings() *Registry {
	return v.bindings
}

// Document returns the document mount targets resolve against, if any.
func (v *View) Document() *dom.Document {
	return v.doc
}

// =============================================================================
// Scope chain: Get / Set / Watch / Unwatch
// =============================================================================

// Get returns the value for key, falling through the scope chain when the
// key is locally undefined. Returns nil for unknown keys.
func (v *View) Get(key string) any {
	value, _ := v.GetOK(key)
	return value
}

// GetOK is Get with an explicit defined/undefined result.
func (v *View) GetOK(key string) (any, bool) {
	if v.state == StateDestroyed {
		return nil, false
	}
	if value, ok := v.model.Get(key); ok {
		return value, true
	}
	if v.scope != nil {
		return v.scope.GetOK(key)
	}
	return nil, false
}

// Set writes value into this view's own model. Writes never target an
// ancestor: once set, the key is locally owned.
//
// If watchers for key were previously delegated to an ancestor (the key
// was locally undefined when they were registered), they are migrated
// first: unregistered from the ancestor model, re-registered locally, and
// the delegation record cleared. The write then fires them from the local
// model, so no notification is lost or duplicated.
func (v *View) Set(key string, value any) error {
	if v.state == StateDestroyed {
		return errors.New("R060")
	}

	if entries, ok := v.scopeWatchers[key]; ok {
		for _, e := range entries {
			e.model.UnwatchID(key, e.id)
			v.model.Watch(key, e.fn)
		}
		delete(v.scopeWatchers, key)
	}

	v.model.Set(key, value)
	return nil
}

// SetAll applies Set for every key in data. Application is per-key and
// non-atomic; a convenience form, not a transaction.
func (v *View) SetAll(data map[string]any) error {
	for key, value := range data {
		if err := v.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Watch registers fn for changes to key. A locally defined key (or a view
// with no scope) watches the local model. Otherwise the registration is
// delegated to the nearest ancestor that defines the key (the outermost
// scope when none does) and recorded for later migration by Set.
func (v *View) Watch(key string, fn Watcher) {
	if fn == nil || v.state == StateDestroyed {
		return
	}
	v.collector.WatcherRegistered()

	if v.model.Has(key) || v.scope == nil {
		v.model.Watch(key, fn)
		return
	}

	target := v.resolveWatchModel(key)
	id := target.Watch(key, fn)
	if v.scopeWatchers == nil {
		v.scopeWatchers = make(map[string][]scopeWatcher)
	}
	v.scopeWatchers[key] = append(v.scopeWatchers[key], scopeWatcher{id: id, fn: fn, model: target})
}

// WatchAll registers fn for every key in keys.
func (v *View) WatchAll(keys []string, fn Watcher) {
	for _, key := range keys {
		v.Watch(key, fn)
	}
}

// resolveWatchModel walks the scope chain for the model a delegated watch
// should target: the nearest ancestor defining key, else the outermost.
func (v *View) resolveWatchModel(key string) *Model {
	s := v.scope
	for {
		if s.model.Has(key) || s.scope == nil {
			return s.model
		}
		s = s.scope
	}
}

// Unwatch removes the first watcher for key matching fn, mirroring Watch's
// resolution: a delegated registration is removed from the ancestor model
// and its migration record pruned. Unknown callbacks are a no-op.
func (v *View) Unwatch(key string, fn Watcher) {
	if fn == nil || v.state == StateDestroyed {
		return
	}

	if entries, ok := v.scopeWatchers[key]; ok {
		ptr := reflect.ValueOf(fn).Pointer()
		for i, e := range entries {
			if reflect.ValueOf(e.fn).Pointer() == ptr {
				e.model.UnwatchID(key, e.id)
				entries = append(entries[:i], entries[i+1:]...)
				if len(entries) == 0 {
					delete(v.scopeWatchers, key)
				} else {
					v.scopeWatchers[key] = entries
				}
				return
			}
		}
		return
	}

	v.model.Unwatch(key, fn)
}

// =============================================================================
// Mounting
// =============================================================================

// AppendTo mounts the view as the last child of target (a *dom.Node or a
// selector string) and emits mounted.
func (v *View) AppendTo(target any) error {
	node, err := v.mountTarget(target)
	if err != nil {
		return err
	}
	node.AppendChild(v.el)
	v.mount()
	return nil
}

// Replace mounts the view in place of target, which is removed.
func (v *View) Replace(target any) error {
	node, err := v.mountTarget(target)
	if err != nil {
		return err
	}
	node.ReplaceWith(v.el)
	v.mount()
	return nil
}

// Before mounts the view as target's previous sibling.
func (v *View) Before(target any) error {
	node, err := v.mountTarget(target)
	if err != nil {
		return err
	}
	if node.Parent == nil {
		return errors.New("R001").WithDetail("target node is detached")
	}
	node.Parent.InsertBefore(v.el, node)
	v.mount()
	return nil
}

// After mounts the view as target's next sibling.
func (v *View) After(target any) error {
	node, err := v.mountTarget(target)
	if err != nil {
		return err
	}
	if node.Parent == nil {
		return errors.New("R001").WithDetail("target node is detached")
	}
	node.Parent.InsertAfter(v.el, node)
	v.mount()
	return nil
}

// Remove unmounts the view and emits unmounted. A view that is not mounted
// is a no-op: no event fires.
func (v *View) Remove() error {
	if v.state == StateDestroyed {
		return errors.New("R060")
	}
	if v.state != StateMounted {
		return nil
	}
	v.el.Detach()
	v.unmount()
	return nil
}

// unmount transitions out of the mounted state, recursing into composed
// children symmetrically with mount: detaching a subtree unmounts every
// view living inside it.
func (v *View) unmount() {
	v.state = StateUnmounted
	v.emit(EventUnmounted)
	for _, child := range v.Children() {
		if child.state == StateMounted {
			child.unmount()
		}
	}
}

// mountTarget validates lifecycle state and resolves a node-or-selector
// mount argument.
func (v *View) mountTarget(target any) (*dom.Node, error) {
	if v.state == StateDestroyed {
		return nil, errors.New("R060")
	}
	if node, ok := target.(*dom.Node); ok && node != nil {
		return node, nil
	}
	if v.doc == nil {
		return nil, errors.New("R002").
			WithDetail("selector targets need a document").
			WithSuggestion("create the view with WithDocument, or pass a *dom.Node")
	}
	return v.doc.Resolve(target)
}

// mount transitions into the mounted state, propagating to composed
// children, which live inside this view's subtree.
func (v *View) mount() {
	v.state = StateMounted
	v.emit(EventMounted)
	for _, child := range v.Children() {
		if child.state != StateMounted && child.state != StateDestroyed {
			child.mount()
		}
	}
}

// =============================================================================
// Destruction
// =============================================================================

// Destroy tears the view down: emits destroy, destroys children first to
// last, cancels the view's pending scheduled writes, unregisters all
// watchers (including scope-delegated ones on ancestors), removes the
// element, detaches from the owner, and clears internal references.
// Destroy is terminal and idempotent.
func (v *View) Destroy() {
	if v.state == StateDestroyed || v.destroying {
		return
	}
	v.destroying = true

	v.emit(EventDestroy)

	for _, child := range v.Children() {
		child.Destroy()
	}

	if v.sched != nil {
		v.sched.Cancel(v.id)
	}

	for key, entries := range v.scopeWatchers {
		for _, e := range entries {
			e.model.UnwatchID(key, e.id)
		}
	}
	v.scopeWatchers = nil

	v.model.Destroy()

	if v.el != nil {
		v.el.Detach()
	}
	if v.owner != nil {
		v.owner.removeChild(v)
	}

	v.collector.ViewDestroyed()

	v.el = nil
	v.owner = nil
	v.scope = nil
	v.root = nil
	v.children = nil
	v.hooks = nil
	v.family = nil
	v.state = StateDestroyed
}

// removeChild detaches child from v's child list.
func (v *View) removeChild(child *View) {
	for i, c := range v.children {
		if c == child {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return
		}
	}
}

// addChild appends child to v's child list.
func (v *View) addChild(child *View) {
	v.children = append(v.children, child)
}
