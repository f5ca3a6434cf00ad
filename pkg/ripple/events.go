package ripple

// Event identifies a view lifecycle transition.
type Event uint8

const (
	EventConstruct Event = iota + 1
	EventCreated
	EventReady
	EventMounted
	EventUnmounted
	EventDestroy
)

// String returns a human-readable name for the event.
func (e Event) String() string {
	switch e {
	case EventConstruct:
		return "construct"
	case EventCreated:
		return "created"
	case EventReady:
		return "ready"
	case EventMounted:
		return "mounted"
	case EventUnmounted:
		return "unmounted"
	case EventDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// HookFunc observes a lifecycle event on a view.
type HookFunc func(v *View)

// emit runs family-level hooks, then instance hooks, in registration order.
func (v *View) emit(e Event) {
	if v.family != nil {
		for _, fn := range v.family.hooks[e] {
			fn(v)
		}
	}
	for _, fn := range v.hooks[e] {
		fn(v)
	}
}

// On registers an instance-level lifecycle hook. Hooks registered for an
// event run after the family's hooks, in registration order.
func (v *View) On(e Event, fn HookFunc) {
	if fn == nil || v.state == StateDestroyed {
		return
	}
	if v.hooks == nil {
		v.hooks = make(map[Event][]HookFunc)
	}
	v.hooks[e] = append(v.hooks[e], fn)
}
