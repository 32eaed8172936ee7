package weft

import (
	"fmt"

	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/segment"
	"github.com/dshills/weft/internal/template"
)

// selectionSType is the decorator type the current selection renders as.
const selectionSType = "selection"

// buildTree expands the render inputs into the next render tree. Block
// decorators become siblings of their target node, layer decorators
// collect into a trailing overlay root, and the selection joins the
// decorator set as one more inline decorator.
func (r *Renderer) buildTree(in renderInput) (*core.VNode, error) {
	decorators := in.decorators
	if in.selection != nil && in.selection.SID != "" {
		sel := in.selection.Range
		decorators = append(decorators[:len(decorators):len(decorators)], core.Decorator{
			SID:      "selection",
			SType:    selectionSType,
			Category: core.CategoryInline,
			Target:   core.Target{SID: in.selection.SID, Range: &sel},
		})
	}

	nodes := in.nodes
	if in.node != nil {
		nodes = []*Node{in.node}
	}

	var layer []*core.VNode
	children, err := r.buildSiblings(nodes, decorators, in.runtime, &layer)
	if err != nil {
		return nil, err
	}
	if len(layer) > 0 {
		children = append(children, &core.VNode{
			Tag:      "div",
			Attrs:    map[string]any{"class": "weft-layer"},
			Children: layer,
		})
	}

	return &core.VNode{Tag: "root", Children: children}, nil
}

// buildSiblings builds each node plus its block decorator siblings.
func (r *Renderer) buildSiblings(nodes []*Node, decorators []Decorator, runtime any, layer *[]*core.VNode) ([]*core.VNode, error) {
	var out []*core.VNode
	for _, n := range nodes {
		before, after := r.blockFragments(n.SID, decorators, runtime, layer)

		vn, err := r.buildNode(n, decorators, runtime, layer)
		if err != nil {
			return nil, err
		}

		out = append(out, before...)
		out = append(out, vn)
		out = append(out, after...)
	}
	return out, nil
}

// buildNode renders one document node through its template. Text-bearing
// nodes are segmented into mark- and decorator-wrapped runs first.
func (r *Renderer) buildNode(n *Node, decorators []Decorator, runtime any, layer *[]*core.VNode) (*core.VNode, error) {
	var children []*core.VNode
	var err error
	if n.IsText() {
		children = segment.Segment(n.SID, n.Text, n.Marks, decorators, r.registry)
	} else {
		children, err = r.buildSiblings(n.Children, decorators, runtime, layer)
		if err != nil {
			return nil, err
		}
	}

	ctx := &template.Context{
		SID:      n.SID,
		SType:    n.SType,
		Attrs:    n.Attrs,
		Text:     n.Text,
		Children: children,
		Runtime:  runtime,
	}

	var vn *core.VNode
	entry, ok := r.registry.Resolve(n.SType)
	switch {
	case ok && entry.Kind == template.KindComponent:
		// Guard the component's own render: setState from inside it is
		// rejected rather than looping.
		r.components.BeginRender(n.SID)
		vn = entry.Template.Render(ctx)
		r.components.EndRender(n.SID)
	case ok && entry.Kind == template.KindNode:
		vn = entry.Template.Render(ctx)
	default:
		vn = fallbackNode(n.SType, children)
	}
	if vn == nil {
		return nil, fmt.Errorf("%w: %q (sid %q)", ErrNilRender, n.SType, n.SID)
	}

	vn.SID = n.SID
	vn.SType = n.SType
	return vn, nil
}

// blockFragments renders the block and layer decorators targeting a node.
// Block fragments return as before/after sibling lists; layer fragments
// append to the overlay collection.
func (r *Renderer) blockFragments(sid string, decorators []Decorator, runtime any, layer *[]*core.VNode) (before, after []*core.VNode) {
	for _, d := range decorators {
		if d.Target.SID != sid {
			continue
		}
		switch d.Category {
		case core.CategoryBlock:
			frag := r.renderDecorator(d, runtime)
			if frag == nil {
				continue
			}
			if d.Position == core.PositionAfter {
				after = append(after, frag)
			} else {
				before = append(before, frag)
			}
		case core.CategoryLayer:
			if frag := r.renderDecorator(d, runtime); frag != nil {
				*layer = append(*layer, frag)
			}
		}
	}
	return before, after
}

// renderDecorator renders one block or layer decorator fragment and stamps
// its matching identity.
func (r *Renderer) renderDecorator(d Decorator, runtime any) *core.VNode {
	tpl, registered := r.registry.ResolveDecorator(d.SType)
	if !registered {
		log.Warningf("no template registered for decorator type %q", d.SType)
	}
	frag := tpl.Render(&template.Context{SID: d.SID, SType: d.SType})
	if frag == nil {
		return nil
	}
	frag.DecoratorSID = d.SID
	frag.DecoratorSType = d.SType
	frag.DecoratorCategory = d.Category
	frag.DecoratorPosition = d.Position
	return frag
}

// fallbackNode renders an unregistered node type as a generic wrapper so a
// missing node template degrades visibly instead of aborting the document.
func fallbackNode(stype string, children []*core.VNode) *core.VNode {
	return &core.VNode{
		Tag:      "div",
		Attrs:    map[string]any{"class": "node-" + stype},
		Children: children,
	}
}
