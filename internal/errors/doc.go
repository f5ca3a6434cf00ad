// Package errors provides structured errors for the ripple runtime and CLI.
//
// Errors carry a stable code (e.g. "R001"), a category, a short message,
// and an optional detail and suggestion. Codes are registered centrally in
// registry.go so the CLI and the runtime report failures consistently.
//
// Usage:
//
//	return errors.New("R001").WithDetail("selector %q", sel)
//
// Callers classify errors by category rather than by code:
//
//	if errors.IsResolution(err) { ... }
package errors
