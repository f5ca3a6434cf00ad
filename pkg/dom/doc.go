// Package dom implements the in-memory document tree the binding core
// renders into, plus the collaborator surface the core depends on:
// Resolve, Insert, Remove, and IsAttached.
//
// Nodes are real mutable tree nodes, not virtual-DOM descriptions: a view
// binds against a Node subtree once and mutates it in place as data
// changes. Templates are parsed from HTML markup via golang.org/x/net/html
// and serialized back with OuterHTML.
//
// The package has no knowledge of views, models, or scheduling; it only
// understands tree structure, selectors, and markup.
package dom
