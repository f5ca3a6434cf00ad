package ripple

import (
	"github.com/thomsbg/ripple/internal/errors"
	"github.com/thomsbg/ripple/pkg/dom"
)

// Render instantiates the view's template fragment and binds it in a
// single traversal: component tags compose child views, matching attribute
// directives run, and text and attribute interpolation sites are wired to
// the model through the scheduler. A view renders exactly once; calling
// Render again fails.
func (v *View) Render() error {
	if v.state == StateDestroyed {
		return errors.New("R060")
	}
	if v.el != nil {
		return errors.New("R061")
	}

	root := v.family.template.Clone()
	if err := v.bindNode(root); err != nil {
		return err
	}
	v.el = root
	return nil
}

// bindNode binds one node and recurses into its children. Composition
// replaces the node wholesale, so the walk is manual rather than via
// dom.Walk.
func (v *View) bindNode(n *dom.Node) error {
	if n.Kind == dom.KindText {
		return v.bindText(n)
	}

	if family, ok := v.bindings.component(n.Tag); ok {
		return v.compose(family, n)
	}

	// Attribute pass. Directives may mutate the attribute list, so walk a
	// snapshot.
	attrs := make([]dom.Attr, len(n.Attrs))
	copy(attrs, n.Attrs)
	for _, a := range attrs {
		if fn, ok := v.bindings.matchDirective(a.Key); ok {
			v.invokeDirective(fn, n, a.Value)
			continue
		}
		if err := v.bindAttr(n, a.Key, a.Value); err != nil {
			return err
		}
	}

	children := make([]*dom.Node, len(n.Children))
	copy(children, n.Children)
	for _, c := range children {
		if err := v.bindNode(c); err != nil {
			return err
		}
	}
	return nil
}

// invokeDirective runs a directive handler with panic isolation so one
// broken directive cannot abort binding the rest of the tree.
func (v *View) invokeDirective(fn DirectiveFunc, n *dom.Node, value string) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("directive handler panicked",
				"tag", n.Tag,
				"view", v.id,
				"panic", r)
		}
	}()
	fn(v, n, value)
}

// bindText installs an interpolation binding for a text node containing
// {{expr}} markers. The initial value is applied synchronously during
// render; every subsequent change goes through the scheduler.
//
// When the text node is its element's entire content, the binding targets
// the element, which lets a *dom.Node value be inserted as a child
// replacing prior content. Mixed text regions always render as text.
func (v *View) bindText(n *dom.Node) error {
	segments, err := parseText(n.Text)
	if err != nil {
		return err
	}
	if segments == nil {
		return nil
	}
	if err := checkFilters(segments, v.bindings); err != nil {
		return err
	}

	site := nextID()
	parent := n.Parent
	soleChild := parent != nil && len(parent.Children) == 1

	apply := func() {
		value := v.interpolateSegments(segments)
		if soleChild {
			if node, ok := value.(*dom.Node); ok && node != nil {
				parent.ReplaceChildren(node)
				return
			}
			parent.SetText(stringify(value))
			return
		}
		n.SetText(stringify(value))
	}

	apply()

	for _, key := range referencedKeys(segments) {
		v.Watch(key, func(any, any) {
			v.sched.Enqueue(site, v.id, apply)
		})
	}
	return nil
}

// bindAttr installs an interpolation binding for an attribute value
// containing {{expr}} markers.
func (v *View) bindAttr(n *dom.Node, key, value string) error {
	segments, err := parseText(value)
	if err != nil {
		return err
	}
	if segments == nil {
		return nil
	}
	if err := checkFilters(segments, v.bindings); err != nil {
		return err
	}

	site := nextID()
	apply := func() {
		n.SetAttr(key, stringify(v.interpolateSegments(segments)))
	}

	apply()

	for _, k := range referencedKeys(segments) {
		v.Watch(k, func(any, any) {
			v.sched.Enqueue(site, v.id, apply)
		})
	}
	return nil
}

// compose replaces a component tag with a child view created from family.
// Static attributes become initial data; interpolated attributes stay
// live, forwarding changes into the child's model.
func (v *View) compose(family *Family, n *dom.Node) error {
	data := make(map[string]any)

	type liveAttr struct {
		key      string
		segments []segment
	}
	var live []liveAttr

	for _, a := range n.Attrs {
		segments, err := parseText(a.Value)
		if err != nil {
			return err
		}
		if segments == nil {
			data[a.Key] = a.Value
			continue
		}
		if err := checkFilters(segments, v.bindings); err != nil {
			return err
		}
		data[a.Key] = v.interpolateSegments(segments)
		live = append(live, liveAttr{key: a.Key, segments: segments})
	}

	child, err := family.create(data, v)
	if err != nil {
		return err
	}

	for _, la := range live {
		la := la
		for _, key := range referencedKeys(la.segments) {
			v.Watch(key, func(any, any) {
				// Forwarding writes into the child's model; the child's own
				// bindings take it to the DOM through the scheduler.
				_ = child.Set(la.key, v.interpolateSegments(la.segments))
			})
		}
	}

	n.ReplaceWith(child.el)
	return nil
}
