// Package ripple is a live view/data-binding runtime: it renders a
// template into a mutable DOM subtree and keeps that subtree synchronized
// with an observable model.
//
// # Core Types
//
// Family is a view class built from one template:
//
//	person := ripple.MustNew(`<div>{{name}}</div>`)
//	v, _ := person.Create(map[string]any{"name": "Ted"})
//	v.AppendTo(doc.Body())
//
// Model is the observable store backing each View. Set notifies watchers
// synchronously, in registration order, and only when the value changed.
//
// Views compose: registering a Family as a component turns matching tags
// into child views owned by the composing view. A child's Get and Watch
// fall back through the scope chain to ancestor data until the key is set
// locally, at which point delegated watchers migrate to the child's own
// model.
//
// # Batching
//
// Bindings never write to the DOM synchronously after the initial render.
// Each change enqueues a write keyed by its binding site on the Scheduler;
// re-enqueueing before a flush replaces the earlier write, so N sets in
// one turn produce one DOM write per site:
//
//	v.Set("text", "a")
//	v.Set("text", "b")
//	v.Scheduler().Flush() // one write, "b"
//
// Model notification itself is not batched: every effective Set fires its
// watchers synchronously. Only the DOM writes coalesce.
//
// # Concurrency
//
// The runtime is single-threaded cooperative: a view tree belongs to one
// goroutine at a time and the embedding host (an event loop, a session)
// serializes access, the way a browser's main thread would. Model and
// Scheduler tolerate cross-goroutine use, but the View API does not.
package ripple
