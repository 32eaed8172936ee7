package fiber

import (
	"testing"

	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/dom"
)

func committed(v *core.VNode) *core.VNode {
	// Stamp fake committed DOM elements onto a prev tree.
	var walk func(n *core.VNode)
	walk = func(n *core.VNode) {
		if n.IsText() {
			n.DOM = dom.NewText(n.Text)
		} else {
			n.DOM = dom.NewElement(n.Tag, false)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(v)
	return v
}

func childFibers(f *Fiber) []*Fiber {
	var out []*Fiber
	for c := f.Child; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

func TestBuildMatchesBySID(t *testing.T) {
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
		{Tag: "p", SID: "b"},
	}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "b"},
		{Tag: "p", SID: "a"},
	}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)
	if len(kids) != 2 {
		t.Fatalf("got %d child fibers, want 2", len(kids))
	}

	// Reordered children still reuse their own previous DOM elements.
	if kids[0].DOM != prev.Children[1].DOM {
		t.Error("sid b did not reuse its previous element")
	}
	if kids[1].DOM != prev.Children[0].DOM {
		t.Error("sid a did not reuse its previous element")
	}
	if len(root.Stale) != 0 {
		t.Errorf("stale = %d, want 0", len(root.Stale))
	}
}

func TestBuildUnmatchedNextGetsNilDOM(t *testing.T) {
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
	}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
		{Tag: "p", SID: "new"},
	}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)
	if kids[0].DOM == nil {
		t.Error("existing sid lost its element")
	}
	if kids[1].DOM != nil {
		t.Error("new sid must be created, not reuse an element")
	}
}

func TestBuildStaleCollection(t *testing.T) {
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
		{Tag: "p", SID: "gone"},
	}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
	}}

	root := Build(dom.NewContainer("div"), next, prev)
	if len(root.Stale) != 1 {
		t.Fatalf("stale = %d, want 1", len(root.Stale))
	}
	if root.Stale[0] != prev.Children[1].DOM {
		t.Error("stale list holds the wrong element")
	}
}

func TestBuildDecoratorFragmentMatching(t *testing.T) {
	before := func() *core.VNode {
		return &core.VNode{
			Tag:               "span",
			DecoratorSID:      "chip-1",
			DecoratorSType:    "chip",
			DecoratorPosition: core.PositionBefore,
		}
	}
	after := func() *core.VNode {
		return &core.VNode{
			Tag:               "span",
			DecoratorSID:      "chip-1",
			DecoratorSType:    "chip",
			DecoratorPosition: core.PositionAfter,
		}
	}

	// Previously only the "after" fragment existed.
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{after()}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{before(), after()}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)

	// The new "before" fragment must not steal the "after" fragment's
	// element even though the sids coincide.
	if kids[0].DOM != nil {
		t.Error("before fragment reused the after fragment's element")
	}
	if kids[1].DOM != prev.Children[0].DOM {
		t.Error("after fragment did not keep its element")
	}
}

func TestBuildDecoratorEncounterOrder(t *testing.T) {
	frag := func() *core.VNode {
		return &core.VNode{
			Tag:               "span",
			DecoratorSID:      "h1",
			DecoratorSType:    "highlight",
			DecoratorPosition: core.PositionBefore,
		}
	}

	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{frag(), frag()}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{frag(), frag()}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)
	if kids[0].DOM != prev.Children[0].DOM {
		t.Error("first fragment should consume the first previous fragment")
	}
	if kids[1].DOM != prev.Children[1].DOM {
		t.Error("second fragment should consume the second previous fragment")
	}
}

func TestBuildStructuralMatch(t *testing.T) {
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "span", Attrs: map[string]any{"class": "b a"}, Children: []*core.VNode{core.TextNode("x")}},
	}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "span", Attrs: map[string]any{"class": []string{"a", "b"}}, Children: []*core.VNode{core.TextNode("x")}},
	}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)
	if kids[0].DOM != prev.Children[0].DOM {
		t.Error("class order difference broke the structural match")
	}
}

func TestBuildStructuralMismatch(t *testing.T) {
	tests := []struct {
		name string
		next *core.VNode
	}{
		{"different tag", &core.VNode{Tag: "em", Children: []*core.VNode{core.TextNode("x")}}},
		{"different class", &core.VNode{Tag: "span", Attrs: map[string]any{"class": "other"}, Children: []*core.VNode{core.TextNode("x")}}},
		{"different child count", &core.VNode{Tag: "span"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
				{Tag: "span", Children: []*core.VNode{core.TextNode("x")}},
			}})
			next := &core.VNode{Tag: "div", Children: []*core.VNode{tt.next}}

			root := Build(dom.NewContainer("div"), next, prev)
			kids := childFibers(root)
			if kids[0].DOM != nil {
				t.Error("mismatched wrapper reused an element")
			}
			if len(root.Stale) != 1 {
				t.Errorf("stale = %d, want 1", len(root.Stale))
			}
		})
	}
}

func TestBuildPositionalTextMatch(t *testing.T) {
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
		core.TextNode("hello"),
	}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{
		core.TextNode("hello world"),
	}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)
	if kids[0].DOM != prev.Children[0].DOM {
		t.Error("text leaf at same index should reuse the previous text node")
	}
}

func TestBuildFirstComeFirstServed(t *testing.T) {
	// Two next children with the same sid: only the first consumes the
	// previous element.
	prev := committed(&core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
	}})
	next := &core.VNode{Tag: "div", Children: []*core.VNode{
		{Tag: "p", SID: "a"},
		{Tag: "p", SID: "a"},
	}}

	root := Build(dom.NewContainer("div"), next, prev)
	kids := childFibers(root)
	if kids[0].DOM == nil {
		t.Error("first claimant lost the element")
	}
	if kids[1].DOM != nil {
		t.Error("consumed previous child satisfied a second next child")
	}
}

func TestBuildRootMismatchDropsDOM(t *testing.T) {
	prev := committed(&core.VNode{Tag: "div"})
	next := &core.VNode{Tag: "section"}

	root := Build(dom.NewContainer("div"), next, prev)
	if root.DOM != nil {
		t.Error("root with different tag must not patch in place")
	}
}
