// Package fiber pairs a freshly built render tree with the previously
// committed one.
//
// A fiber tree exists only for the duration of one reconciliation pass.
// Each fiber records which previous DOM element, if any, its node may
// reuse; unmatched previous children are collected on the parent fiber's
// stale list for removal after the children are patched.
package fiber

import (
	"golang.org/x/net/html"

	"github.com/dshills/weft/internal/core"
)

// Fiber is the transient unit pairing a next VNode with its previous
// counterpart and a live DOM reference.
type Fiber struct {
	// VNode is the node from the next render tree.
	VNode *core.VNode

	// Prev is the matched node from the previously committed tree, or nil.
	Prev *core.VNode

	// DOM is the previous element this node may patch in place. Nil means
	// the reconciler must create a fresh node.
	DOM *html.Node

	// Parent, Child, and Sibling link the fiber tree. Child points at the
	// first child; further children hang off its Sibling chain.
	Parent  *Fiber
	Child   *Fiber
	Sibling *Fiber

	// Index is this node's position among its parent's next children.
	Index int

	// Stale holds previous child DOM nodes that no next child matched.
	// Removal happens by direct node reference, never by decorator sid,
	// since several fragments can share one. Lifecycle cleanup for the
	// removed subtrees happens at end of pass, not here: a sid stale
	// under one parent may have moved under another in the same render.
	Stale []*html.Node

	// Container is the DOM element the root fiber renders into. Only set
	// on the root.
	Container *html.Node
}

// Build constructs the fiber tree for a next render tree against the
// previously committed one. The container is the DOM element the root
// renders into.
func Build(container *html.Node, next, prev *core.VNode) *Fiber {
	root := &Fiber{
		VNode:     next,
		Index:     0,
		Container: container,
	}
	if matchRoot(next, prev) {
		root.Prev = prev
		root.DOM = prev.DOM
	}
	buildChildren(root)
	return root
}

// matchRoot decides whether the committed root can be patched in place.
func matchRoot(next, prev *core.VNode) bool {
	if next == nil || prev == nil {
		return false
	}
	if next.SID != "" || prev.SID != "" {
		return next.SID == prev.SID
	}
	if next.IsText() && prev.IsText() {
		return true
	}
	return next.Tag == prev.Tag
}

// buildChildren matches each next child against the previous sibling list
// and recurses. Matching is strictly first-come-first-served: a previous
// child, once consumed, cannot satisfy a second next child.
func buildChildren(f *Fiber) {
	next := f.VNode
	if next == nil || next.Portal != nil {
		// Portal subtrees reconcile against their own host's committed
		// tree, not the main tree.
		return
	}

	var prevChildren []*core.VNode
	if f.Prev != nil {
		prevChildren = f.Prev.Children
	}
	consumed := make([]bool, len(prevChildren))

	var lastChild *Fiber
	for i, child := range next.Children {
		prev := matchChild(child, i, prevChildren, consumed)

		cf := &Fiber{
			VNode:  child,
			Prev:   prev,
			Parent: f,
			Index:  i,
		}
		if prev != nil {
			cf.DOM = prev.DOM
		}

		if lastChild == nil {
			f.Child = cf
		} else {
			lastChild.Sibling = cf
		}
		lastChild = cf

		buildChildren(cf)
	}

	for i, prev := range prevChildren {
		if consumed[i] || prev.DOM == nil {
			continue
		}
		f.Stale = append(f.Stale, prev.DOM)
	}
}

// matchChild finds the previous child for a next child, trying each rule in
// strict priority order, and marks the winner consumed.
func matchChild(child *core.VNode, index int, prevChildren []*core.VNode, consumed []bool) *core.VNode {
	// Rule 1: equal non-empty sid.
	if child.SID != "" {
		for i, prev := range prevChildren {
			if !consumed[i] && prev.SID == child.SID {
				consumed[i] = true
				return prev
			}
		}
		return nil
	}

	// Rule 1 for portals: equal portal id keeps committed portal state
	// associated, though portals carry no DOM in the main tree.
	if child.Portal != nil {
		for i, prev := range prevChildren {
			if !consumed[i] && prev.Portal != nil && prev.Portal.ID == child.Portal.ID {
				consumed[i] = true
				return prev
			}
		}
		return nil
	}

	// Rule 2: decorator fragments match by (sid, stype, position) in
	// encounter order. A "before" fragment never satisfies an "after"
	// fragment's match even when sids coincide.
	if child.IsDecorator() {
		for i, prev := range prevChildren {
			if consumed[i] || !prev.IsDecorator() {
				continue
			}
			if prev.DecoratorSID == child.DecoratorSID &&
				prev.DecoratorSType == child.DecoratorSType &&
				prev.DecoratorPosition == child.DecoratorPosition {
				consumed[i] = true
				return prev
			}
		}
		return nil
	}

	// Rule 3: structural match for keyless wrapper nodes: equal tag,
	// equal normalized class set, equal child count.
	if child.Tag != "" {
		for i, prev := range prevChildren {
			if consumed[i] || prev.SID != "" || prev.IsDecorator() || prev.Portal != nil {
				continue
			}
			if prev.Tag != child.Tag {
				continue
			}
			var prevClass, nextClass any
			if prev.Attrs != nil {
				prevClass = prev.Attrs["class"]
			}
			if child.Attrs != nil {
				nextClass = child.Attrs["class"]
			}
			if !core.ClassesEqual(prevClass, nextClass) {
				continue
			}
			if len(prev.Children) != len(child.Children) {
				continue
			}
			consumed[i] = true
			return prev
		}
		return nil
	}

	// Rule 4: positional fallback for bare text leaves.
	if index < len(prevChildren) && !consumed[index] && prevChildren[index].IsText() {
		consumed[index] = true
		return prevChildren[index]
	}
	return nil
}
