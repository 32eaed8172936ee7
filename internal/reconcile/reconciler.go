// Package reconcile patches a live DOM tree to match a freshly built render
// tree, guided by the fiber pairing.
//
// A pass walks the fiber tree top-down: matched elements are patched in
// place through the dom.Writer, unmatched next nodes get fresh DOM, and
// each parent's stale children are removed after its live children are
// placed. Previous state is read from the retained VNode snapshot only;
// the live DOM is never re-queried for old values.
package reconcile

import (
	"github.com/tliron/commonlog"
	"golang.org/x/net/html"

	"github.com/dshills/weft/internal/component"
	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/dom"
	"github.com/dshills/weft/internal/fiber"
	"github.com/dshills/weft/internal/template"
)

var log = commonlog.GetLogger("weft.reconcile")

// Reconciler applies one render pass to the DOM.
type Reconciler struct {
	writer     *dom.Writer
	registry   *template.Registry
	components *component.Manager
	portals    *PortalManager

	skip map[string]struct{}
	seen map[string]struct{}
}

// New creates a reconciler over the shared collaborators.
func New(writer *dom.Writer, registry *template.Registry, components *component.Manager, portals *PortalManager) *Reconciler {
	return &Reconciler{
		writer:     writer,
		registry:   registry,
		components: components,
		portals:    portals,
		seen:       make(map[string]struct{}),
	}
}

// BeginPass resets per-pass state. Nodes whose sid appears in skip keep
// their committed DOM subtree byte-for-byte.
func (r *Reconciler) BeginPass(skip map[string]struct{}) {
	r.skip = skip
	r.seen = make(map[string]struct{})
	if r.portals != nil {
		r.portals.beginPass()
	}
}

// EndPass tears down portals whose id was not rendered this pass and
// returns their ids. The caller prunes component instances against Seen.
func (r *Reconciler) EndPass() []string {
	if r.portals == nil {
		return nil
	}
	return r.portals.endPass(r)
}

// Seen returns the component sids encountered this pass.
func (r *Reconciler) Seen() map[string]struct{} {
	return r.seen
}

// Reconcile patches the root fiber's container so its children match the
// next render tree.
func (r *Reconciler) Reconcile(root *fiber.Fiber) error {
	root.VNode.DOM = root.Container
	return r.reconcileChildren(root, root.Container)
}

// reconcileChildren places each live child at its DOM index, skipping
// portal nodes, then removes the parent's stale children. Stale removal by
// node reference means fragments sharing a decorator sid are never confused.
func (r *Reconciler) reconcileChildren(f *fiber.Fiber, parent *html.Node) error {
	index := 0
	for c := f.Child; c != nil; c = c.Sibling {
		if c.VNode.Portal != nil {
			if err := r.portals.render(r, c.VNode); err != nil {
				return err
			}
			continue
		}
		if err := r.reconcileNode(c, parent, index); err != nil {
			return err
		}
		index++
	}

	for _, stale := range f.Stale {
		r.writer.RemoveChild(parent, stale)
	}
	return nil
}

// reconcileNode creates or patches one node and recurses into its children.
func (r *Reconciler) reconcileNode(f *fiber.Fiber, parent *html.Node, index int) error {
	v := f.VNode

	if v.SID != "" && r.skip != nil {
		if _, skipped := r.skip[v.SID]; skipped && f.Prev != nil && f.Prev.DOM != nil {
			// Adopt the committed subtree wholesale. The DOM under it is
			// not touched, and lifecycle state inside it stays live.
			*v = *f.Prev
			r.place(parent, v.DOM, index)
			r.markPreserved(v)
			return nil
		}
	}

	if v.IsText() {
		if f.DOM != nil && f.DOM.Type == html.TextNode {
			v.DOM = f.DOM
			r.writer.SetText(v.DOM, v.Text)
		} else {
			v.DOM = dom.NewText(v.Text)
		}
		r.place(parent, v.DOM, index)
		return nil
	}

	node := f.DOM
	var oldAttrs map[string]any
	var oldStyle map[string]string

	if node != nil && node.Type == html.ElementNode && node.Data == v.Tag {
		if f.Prev != nil {
			oldAttrs = f.Prev.Attrs
			oldStyle = f.Prev.Style
		}
	} else {
		// Tag changed or no reusable element. A sid match still carries
		// component identity across the recreation.
		if node != nil && node.Parent != nil {
			r.writer.RemoveChild(node.Parent, node)
		}
		node = dom.NewElement(v.Tag, parent.Namespace == dom.SVGNamespace)
	}
	v.DOM = node

	r.writer.ApplyAttrs(node, oldAttrs, v.Attrs)
	r.writer.ApplyStyle(node, oldStyle, v.Style)
	r.place(parent, node, index)

	if v.SID != "" && r.registry.IsComponent(v.SType) {
		r.seen[v.SID] = struct{}{}
		entry, _ := r.registry.Resolve(v.SType)
		if _, mounted := r.components.Get(v.SID); mounted {
			r.components.Update(v.SID, node)
		} else {
			r.components.Mount(v.SID, v.SType, node, entry.Template)
		}
	}

	return r.reconcileChildren(f, node)
}

// place ensures n sits at the given index under parent. An already-placed
// node produces no write.
func (r *Reconciler) place(parent, n *html.Node, index int) {
	if dom.ChildAt(parent, index) == n {
		return
	}
	if n.Parent != nil {
		r.writer.RemoveChild(n.Parent, n)
	}
	r.writer.InsertChildAt(parent, n, index)
}

// markPreserved records lifecycle state inside a skipped subtree: component
// sids are kept alive and portal hosts are kept mounted.
func (r *Reconciler) markPreserved(v *core.VNode) {
	if v == nil {
		return
	}
	if v.Portal != nil {
		r.portals.keep(r, v.Portal.ID)
		return
	}
	if v.SID != "" && r.registry.IsComponent(v.SType) {
		r.seen[v.SID] = struct{}{}
	}
	for _, c := range v.Children {
		r.markPreserved(c)
	}
}
