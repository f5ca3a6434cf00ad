package dom

import "testing"

func TestAttrs(t *testing.T) {
	n := NewElement("div", Attr{Key: "id", Value: "app"}, Attr{Key: "class", Value: "a b"})

	if v, ok := n.Attr("id"); !ok || v != "app" {
		t.Errorf("expected id=app, got %q ok=%v", v, ok)
	}
	if _, ok := n.Attr("missing"); ok {
		t.Error("missing attribute should not be found")
	}

	n.SetAttr("id", "root")
	if v, _ := n.Attr("id"); v != "root" {
		t.Errorf("SetAttr should replace in place, got %q", v)
	}
	if n.Attrs[0].Key != "id" {
		t.Error("SetAttr must preserve attribute order")
	}

	n.SetAttr("data-x", "1")
	if len(n.Attrs) != 3 {
		t.Errorf("expected 3 attrs, got %d", len(n.Attrs))
	}

	n.RemoveAttr("class")
	if n.HasClass("a") {
		t.Error("class removed, HasClass should be false")
	}
	n.RemoveAttr("class") // no-op
}

func TestHasClass(t *testing.T) {
	n := NewElement("div", Attr{Key: "class", Value: "active  item"})
	if !n.HasClass("active") || !n.HasClass("item") {
		t.Error("expected both classes present")
	}
	if n.HasClass("act") {
		t.Error("HasClass must match whole class names only")
	}
}

func TestTreeMutation(t *testing.T) {
	parent := NewElement("ul")
	a := NewElement("li")
	b := NewElement("li")
	c := NewElement("li")

	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertBefore(b, c)

	if len(parent.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(parent.Children))
	}
	if parent.Children[1] != b {
		t.Error("InsertBefore should place b before c")
	}

	d := NewElement("li")
	parent.InsertAfter(d, c)
	if parent.Children[3] != d {
		t.Error("InsertAfter should place d after c")
	}

	b.Detach()
	if len(parent.Children) != 3 || b.Parent != nil {
		t.Error("Detach should remove b and clear its parent")
	}
	b.Detach() // no-op on detached node

	// Re-appending moves the node, not copies it
	other := NewElement("ol")
	other.AppendChild(a)
	if a.Parent != other || len(parent.Children) != 2 {
		t.Error("AppendChild should move a to the new parent")
	}
}

func TestReplaceWith(t *testing.T) {
	parent := NewElement("div")
	old := NewElement("span")
	parent.AppendChild(old)

	repl := NewText("hi")
	old.ReplaceWith(repl)

	if parent.Children[0] != repl || repl.Parent != parent {
		t.Error("ReplaceWith should swap nodes in place")
	}
	if old.Parent != nil {
		t.Error("replaced node should be detached")
	}
}

func TestSetText(t *testing.T) {
	n := NewElement("div")
	n.AppendChild(NewElement("span"))
	n.SetText("hello")

	if len(n.Children) != 1 || n.Children[0].Kind != KindText {
		t.Fatal("SetText should replace content with one text node")
	}
	if n.TextContent() != "hello" {
		t.Errorf("expected hello, got %q", n.TextContent())
	}

	txt := NewText("a")
	txt.SetText("b")
	if txt.Text != "b" {
		t.Error("SetText on a text node updates it directly")
	}
}

func TestClone(t *testing.T) {
	n := NewElement("div", Attr{Key: "class", Value: "x"})
	child := NewElement("span")
	child.AppendChild(NewText("hey"))
	n.AppendChild(child)

	clone := n.Clone()
	if clone.Parent != nil {
		t.Error("clone should be detached")
	}
	clone.Children[0].Children[0].Text = "changed"
	if n.TextContent() != "hey" {
		t.Error("mutating the clone must not affect the original")
	}
	clone.SetAttr("class", "y")
	if v, _ := n.Attr("class"); v != "x" {
		t.Error("clone attrs must be independent")
	}
}

func TestWalkOrder(t *testing.T) {
	root := NewElement("div")
	a := NewElement("a")
	b := NewElement("b")
	root.AppendChild(a)
	root.AppendChild(b)
	a.AppendChild(NewText("t"))

	var order []string
	root.Walk(func(n *Node) bool {
		if n.Kind == KindElement {
			order = append(order, n.Tag)
		} else {
			order = append(order, "#text")
		}
		return true
	})

	want := []string{"div", "a", "#text", "b"}
	if len(order) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("walk order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Node
		want  string
	}{
		{
			name: "element with attrs and text",
			build: func() *Node {
				n := NewElement("div", Attr{Key: "id", Value: "app"})
				n.AppendChild(NewText("hi"))
				return n
			},
			want: `<div id="app">hi</div>`,
		},
		{
			name: "text is escaped",
			build: func() *Node {
				n := NewElement("span")
				n.AppendChild(NewText(`<b> & "q"`))
				return n
			},
			want: `<span>&lt;b&gt; &amp; &quot;q&quot;</span>`,
		},
		{
			name: "attr value is escaped",
			build: func() *Node {
				return NewElement("div", Attr{Key: "title", Value: `a"b`})
			},
			want: `<div title="a&quot;b"></div>`,
		},
		{
			name: "attr whitespace is escaped",
			build: func() *Node {
				return NewElement("div", Attr{Key: "title", Value: "a\r\n\tb"})
			},
			want: `<div title="a&#13;&#10;&#9;b"></div>`,
		},
		{
			name:  "void element has no closing tag",
			build: func() *Node { return NewElement("br") },
			want:  `<br>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().OuterHTML(); got != tt.want {
				t.Errorf("OuterHTML = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInnerHTML(t *testing.T) {
	n := NewElement("div")
	n.AppendChild(NewText("a"))
	n.AppendChild(NewElement("br"))
	if got := n.InnerHTML(); got != "a<br>" {
		t.Errorf("InnerHTML = %s, want a<br>", got)
	}
}
