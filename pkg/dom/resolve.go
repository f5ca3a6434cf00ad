package dom

import (
	"strings"

	"github.com/thomsbg/ripple/internal/errors"
)

// Document is the attachment root for a node tree. Mount operations resolve
// their targets against a Document, and IsAttached answers whether a node is
// reachable from it.
type Document struct {
	body *Node
}

// NewDocument creates an empty document with a body element.
func NewDocument() *Document {
	return &Document{body: NewElement("body")}
}

// Body returns the document's body element.
func (d *Document) Body() *Node {
	return d.body
}

// IsAttached reports whether n is reachable from the document body.
func (d *Document) IsAttached(n *Node) bool {
	if n == nil {
		return false
	}
	return n.Root() == d.body
}

// Resolve turns a node-or-selector argument into an attached node.
// A *Node argument is returned as-is; a string is matched as a selector
// against the document. Anything else, or a selector that matches nothing,
// fails with a resolution error.
func (d *Document) Resolve(arg any) (*Node, error) {
	switch v := arg.(type) {
	case *Node:
		if v == nil {
			return nil, errors.New("R002").WithDetail("nil node")
		}
		return v, nil
	case string:
		if n := d.Query(v); n != nil {
			return n, nil
		}
		return nil, errors.New("R001").WithDetail("selector %q", v)
	default:
		return nil, errors.New("R002").WithDetail("got %T", arg)
	}
}

// Query returns the first element matching selector in document order,
// or nil. Selectors are a compound of tag, #id, and .class parts,
// e.g. "div", "#app", ".item", "li.active".
func (d *Document) Query(selector string) *Node {
	sel, ok := parseSelector(selector)
	if !ok {
		return nil
	}

	var found *Node
	d.body.Walk(func(n *Node) bool {
		if found != nil {
			return false
		}
		if n.Kind == KindElement && sel.matches(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// selector is one compound selector: an optional tag plus any number of
// #id and .class conditions, all of which must hold.
type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return selector{}, false
	}

	var sel selector
	for s != "" {
		marker := byte(0)
		if s[0] == '#' || s[0] == '.' {
			marker = s[0]
			s = s[1:]
		}
		end := strings.IndexAny(s, "#.")
		if end == -1 {
			end = len(s)
		}
		part := s[:end]
		s = s[end:]
		if part == "" {
			return selector{}, false
		}

		switch marker {
		case '#':
			sel.id = part
		case '.':
			sel.classes = append(sel.classes, part)
		default:
			sel.tag = strings.ToLower(part)
		}
	}
	return sel, true
}

func (sel selector) matches(n *Node) bool {
	if sel.tag != "" && n.Tag != sel.tag {
		return false
	}
	if sel.id != "" && n.ID() != sel.id {
		return false
	}
	for _, c := range sel.classes {
		if !n.HasClass(c) {
			return false
		}
	}
	return true
}
