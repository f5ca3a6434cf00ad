// Package server hosts a view family over HTTP and websockets.
//
// It is a demo harness for the binding runtime, not a framework: the
// index page connects to /ws, each connection gets its own view and
// scheduler, inbound JSON set events mutate the view's model, the
// scheduler is flushed once per event turn, and the re-rendered markup
// is streamed back as a frame. Prometheus metrics are exposed on
// /metrics and each event is traced through OpenTelemetry.
package server
