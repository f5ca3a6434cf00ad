package ripple

import (
	"log/slog"

	"github.com/thomsbg/ripple/pkg/dom"
	"github.com/thomsbg/ripple/pkg/metrics"
)

// Plugin extends a family during setup, typically registering a bundle of
// directives and filters.
type Plugin func(*Family)

// Family is a view class: one parsed template plus the registry, scheduler,
// and lifecycle hooks shared by every view created from it. Registration
// methods return the family for chaining:
//
//	card := ripple.MustNew(`<div class="card">{{title}}</div>`).
//		Filter("upper", strings.ToUpper).
//		OnReady(func(v *ripple.View) { ... })
//
// A Family is configured during setup and read-only afterwards; its
// registry outlives any single view created from it.
type Family struct {
	template  *dom.Node
	bindings  *Registry
	sched     *Scheduler
	doc       *dom.Document
	logger    *slog.Logger
	collector *metrics.Collector
	hooks     map[Event][]HookFunc
}

// New parses a template and creates a view family for it. The template
// must have a single root element.
func New(template string) (*Family, error) {
	root, err := dom.ParseElement(template)
	if err != nil {
		return nil, err
	}
	return &Family{
		template: root,
		bindings: NewRegistry(),
		sched:    NewScheduler(),
		logger:   slog.Default().With("component", "view"),
		hooks:    make(map[Event][]HookFunc),
	}, nil
}

// MustNew is New, panicking on a template error. For templates known at
// compile time.
func MustNew(template string) *Family {
	f, err := New(template)
	if err != nil {
		panic(err)
	}
	return f
}

// Directive registers an attribute directive on the family's registry.
// Duplicate matchers panic: directive registration is setup-time code and
// a duplicate is a programming error.
func (f *Family) Directive(matcher string, fn DirectiveFunc) *Family {
	if err := f.bindings.Directive(matcher, fn); err != nil {
		panic(err)
	}
	return f
}

// Compose registers child as a component: elements whose tag equals name
// become child views created from that family.
func (f *Family) Compose(name string, child *Family) *Family {
	f.bindings.Component(name, child)
	return f
}

// Filter registers a named interpolation filter.
func (f *Family) Filter(name string, fn FilterFunc) *Family {
	f.bindings.Filter(name, fn)
	return f
}

// Use applies a plugin to the family.
func (f *Family) Use(p Plugin) *Family {
	p(f)
	return f
}

// WithRegistry replaces the family's registry. Views created afterwards
// share the given registry instead of the family's own.
func (f *Family) WithRegistry(r *Registry) *Family {
	f.bindings = r
	return f
}

// WithScheduler replaces the scheduler views created from this family
// write through.
func (f *Family) WithScheduler(s *Scheduler) *Family {
	f.sched = s
	return f
}

// WithDocument sets the document mount selectors resolve against.
func (f *Family) WithDocument(d *dom.Document) *Family {
	f.doc = d
	return f
}

// WithLogger sets the logger for views created from this family.
func (f *Family) WithLogger(logger *slog.Logger) *Family {
	f.logger = logger
	return f
}

// WithMetrics attaches a metrics collector to views and their scheduler.
func (f *Family) WithMetrics(c *metrics.Collector) *Family {
	f.collector = c
	if f.sched != nil {
		f.sched.collector = c
	}
	return f
}

// On registers a family-level lifecycle hook, run for every view of this
// family before that view's instance hooks.
func (f *Family) On(e Event, fn HookFunc) *Family {
	if fn != nil {
		f.hooks[e] = append(f.hooks[e], fn)
	}
	return f
}

// OnConstruct registers a hook for the construct event.
func (f *Family) OnConstruct(fn HookFunc) *Family { return f.On(EventConstruct, fn) }

// OnCreated registers a hook for the created event.
func (f *Family) OnCreated(fn HookFunc) *Family { return f.On(EventCreated, fn) }

// OnReady registers a hook for the ready event.
func (f *Family) OnReady(fn HookFunc) *Family { return f.On(EventReady, fn) }

// OnMounted registers a hook for the mounted event.
func (f *Family) OnMounted(fn HookFunc) *Family { return f.On(EventMounted, fn) }

// OnUnmounted registers a hook for the unmounted event.
func (f *Family) OnUnmounted(fn HookFunc) *Family { return f.On(EventUnmounted, fn) }

// OnDestroy registers a hook for the destroy event.
func (f *Family) OnDestroy(fn HookFunc) *Family { return f.On(EventDestroy, fn) }

// createConfig collects per-view construction options.
type createConfig struct {
	scope    *View
	bindings *Registry
	doc      *dom.Document
	sched    *Scheduler
}

// CreateOption configures a single view construction.
type CreateOption func(*createConfig)

// WithScope sets the view whose data this view falls back to when a key
// is locally undefined. Composed children default to their owner.
func WithScope(scope *View) CreateOption {
	return func(c *createConfig) {
		c.scope = scope
	}
}

// WithBindings gives the view its own registry instead of the family's.
func WithBindings(r *Registry) CreateOption {
	return func(c *createConfig) {
		c.bindings = r
	}
}

// WithViewDocument overrides the document for this view only.
func WithViewDocument(d *dom.Document) CreateOption {
	return func(c *createConfig) {
		c.doc = d
	}
}

// WithViewScheduler gives a root view its own scheduler instead of the
// family's. Composed children always share their owner's scheduler, so
// the option only applies to views created without an owner.
func WithViewScheduler(s *Scheduler) CreateOption {
	return func(c *createConfig) {
		c.sched = s
	}
}

// Create constructs a view from the family's template with the given
// initial data. The constructor runs the full early lifecycle
// synchronously: construct, created, a single render, then ready.
func (f *Family) Create(data map[string]any, opts ...CreateOption) (*View, error) {
	return f.create(data, nil, opts...)
}

// create is Create plus an owner, used for component composition.
func (f *Family) create(data map[string]any, owner *View, opts ...CreateOption) (*View, error) {
	var cfg createConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	v := &View{
		id:        nextID(),
		family:    f,
		state:     StateConstructing,
		owner:     owner,
		logger:    f.logger,
		collector: f.collector,
	}

	v.bindings = cfg.bindings
	if v.bindings == nil {
		v.bindings = f.bindings
	}
	v.scope = cfg.scope
	if v.scope == nil {
		v.scope = owner
	}
	v.doc = cfg.doc
	if v.doc == nil {
		if owner != nil {
			v.doc = owner.doc
		} else {
			v.doc = f.doc
		}
	}
	if owner != nil {
		v.root = owner.root
		v.sched = owner.sched
	} else {
		v.root = v
		v.sched = cfg.sched
		if v.sched == nil {
			v.sched = f.sched
		}
	}

	v.model = NewModel(data)
	v.emit(EventConstruct)

	v.state = StateCreated
	v.emit(EventCreated)

	if owner != nil {
		owner.addChild(v)
	}

	if err := v.Render(); err != nil {
		if owner != nil {
			owner.removeChild(v)
		}
		return nil, err
	}

	v.state = StateReady
	v.collector.ViewCreated()
	v.emit(EventReady)
	return v, nil
}
