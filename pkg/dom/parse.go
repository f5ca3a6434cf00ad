package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/thomsbg/ripple/internal/errors"
)

// Parse parses an HTML fragment into dom nodes. Comments and doctype
// declarations are dropped; whitespace-only text between elements is kept,
// since interpolation markers may sit in any text region.
func Parse(markup string) ([]*Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, errors.FromError(err, "R020")
	}

	var nodes []*Node
	for _, hn := range parsed {
		if n := convert(hn); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// ParseElement parses a fragment expected to contain exactly one root
// element, the common case for a view template. Leading and trailing
// whitespace-only text is tolerated.
func ParseElement(markup string) (*Node, error) {
	nodes, err := Parse(markup)
	if err != nil {
		return nil, err
	}

	var root *Node
	for _, n := range nodes {
		if n.Kind == KindText && strings.TrimSpace(n.Text) == "" {
			continue
		}
		if root != nil {
			return nil, errors.New("R020").
				WithDetail("template has multiple root nodes").
				WithSuggestion("wrap the template in a single enclosing element")
		}
		root = n
	}
	if root == nil || root.Kind != KindElement {
		return nil, errors.New("R021")
	}
	return root, nil
}

// convert maps a parsed html.Node subtree onto a dom.Node subtree.
// Returns nil for node types the document tree does not carry.
func convert(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		n := &Node{Kind: KindElement, Tag: strings.ToLower(hn.Data)}
		for _, a := range hn.Attr {
			n.Attrs = append(n.Attrs, Attr{Key: a.Key, Value: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := convert(c); child != nil {
				child.Parent = n
				n.Children = append(n.Children, child)
			}
		}
		return n
	default:
		return nil
	}
}
