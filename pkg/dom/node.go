package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <span>, etc.
	KindText                // Plain text node
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Attr represents a single attribute. Order of attributes on a node is
// preserved, matching the order they appeared in the template.
type Attr struct {
	Key   string
	Value string
}

// Node is a mutable document tree node.
type Node struct {
	Kind     Kind
	Tag      string  // Element tag name (e.g., "div"), lower-case
	Attrs    []Attr  // Ordered attributes
	Parent   *Node   // nil for detached roots
	Children []*Node // Child nodes
	Text     string  // For KindText
}

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag), Attrs: attrs}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Kind: KindText, Text: text}
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the named attribute, replacing an existing value in place.
func (n *Node) SetAttr(key, value string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
}

// RemoveAttr removes the named attribute. Removing an absent attribute is
// a no-op.
func (n *Node) RemoveAttr(key string) {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// ID returns the element's id attribute, or "".
func (n *Node) ID() string {
	id, _ := n.Attr("id")
	return id
}

// HasClass reports whether the element's class attribute contains name.
func (n *Node) HasClass(name string) bool {
	classes, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}

// AppendChild appends child to n, detaching it from any previous parent.
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore inserts node into n's children immediately before ref.
// If ref is not a child of n, node is appended.
func (n *Node) InsertBefore(node, ref *Node) {
	node.Detach()
	for i, c := range n.Children {
		if c == ref {
			node.Parent = n
			n.Children = append(n.Children[:i], append([]*Node{node}, n.Children[i:]...)...)
			return
		}
	}
	node.Parent = n
	n.Children = append(n.Children, node)
}

// InsertAfter inserts node into n's children immediately after ref.
// If ref is not a child of n, node is appended.
func (n *Node) InsertAfter(node, ref *Node) {
	node.Detach()
	for i, c := range n.Children {
		if c == ref {
			node.Parent = n
			rest := append([]*Node{node}, n.Children[i+1:]...)
			n.Children = append(n.Children[:i+1], rest...)
			return
		}
	}
	node.Parent = n
	n.Children = append(n.Children, node)
}

// ReplaceWith swaps n for node in n's parent. A detached n is a no-op.
func (n *Node) ReplaceWith(node *Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == n {
			node.Detach()
			node.Parent = parent
			parent.Children[i] = node
			n.Parent = nil
			return
		}
	}
}

// Detach removes n from its parent's children. Detaching a detached node
// is a no-op.
func (n *Node) Detach() {
	parent := n.Parent
	if parent == nil {
		return
	}
	for i, c := range parent.Children {
		if c == n {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// SetText replaces n's content with a single text node. On a text node it
// updates the text directly.
func (n *Node) SetText(text string) {
	if n.Kind == KindText {
		n.Text = text
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = n.Children[:0]
	n.AppendChild(NewText(text))
}

// ReplaceChildren replaces n's content with the given nodes.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = n.Children[:0]
	for _, node := range nodes {
		n.AppendChild(node)
	}
}

// Clone returns a deep copy of n with a nil parent.
func (n *Node) Clone() *Node {
	clone := &Node{
		Kind: n.Kind,
		Tag:  n.Tag,
		Text: n.Text,
	}
	if len(n.Attrs) > 0 {
		clone.Attrs = make([]Attr, len(n.Attrs))
		copy(clone.Attrs, n.Attrs)
	}
	for _, c := range n.Children {
		cc := c.Clone()
		cc.Parent = clone
		clone.Children = append(clone.Children, cc)
	}
	return clone
}

// Walk visits n and every descendant in document order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	// Children may be mutated by fn (e.g. component composition swaps a
	// node out), so walk a snapshot.
	children := make([]*Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		c.Walk(fn)
	}
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Root returns the top-most ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}
