// Package core provides shared types for the render pipeline.
// This package breaks import cycles between the segmenter, fiber builder,
// and reconciler.
package core

import (
	"encoding/json"
	"fmt"

	"golang.org/x/net/html"
)

// Category represents the kind of decorator.
type Category uint8

const (
	// CategoryInline targets a sub-range of a text node.
	CategoryInline Category = iota

	// CategoryBlock targets a whole node and renders as a sibling.
	CategoryBlock

	// CategoryLayer targets a whole node and renders in an overlay layer.
	CategoryLayer
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryInline:
		return "inline"
	case CategoryBlock:
		return "block"
	case CategoryLayer:
		return "layer"
	default:
		return "unknown"
	}
}

// Position represents where a block or layer decorator renders relative
// to its target.
type Position uint8

const (
	// PositionBefore renders the decorator as the sibling preceding its target.
	PositionBefore Position = iota

	// PositionAfter renders the decorator as the sibling following its target.
	PositionAfter
)

// String returns the string representation of the position.
func (p Position) String() string {
	switch p {
	case PositionBefore:
		return "before"
	case PositionAfter:
		return "after"
	default:
		return "unknown"
	}
}

// Range is a half-open [Start, End) character range.
type Range struct {
	Start int
	End   int
}

// IsEmpty returns true if the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Len returns the number of characters covered.
func (r Range) Len() int {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start
}

// Clamp restricts both endpoints to [0, max].
func (r Range) Clamp(max int) Range {
	c := r
	if c.Start < 0 {
		c.Start = 0
	}
	if c.Start > max {
		c.Start = max
	}
	if c.End < 0 {
		c.End = 0
	}
	if c.End > max {
		c.End = max
	}
	return c
}

// Covers returns true if r fully contains other.
func (r Range) Covers(other Range) bool {
	return r.Start <= other.Start && r.End >= other.End
}

// Overlaps returns true if the ranges share at least one character.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Touches returns true if the ranges overlap or are directly adjacent.
func (r Range) Touches(other Range) bool {
	return r.End >= other.Start && other.End >= r.Start
}

// String returns a compact representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Mark is a persisted inline formatting annotation on one text node.
// A nil Range means the mark applies to the whole text.
type Mark struct {
	Type  string
	Attrs map[string]any
	Range *Range
}

// Fingerprint returns a stable identity string for the mark's type and
// attributes. json.Marshal sorts map keys, so equal attr maps produce
// equal fingerprints regardless of construction order.
func (m Mark) Fingerprint() string {
	if len(m.Attrs) == 0 {
		return m.Type
	}
	data, err := json.Marshal(m.Attrs)
	if err != nil {
		return m.Type
	}
	return m.Type + ":" + string(data)
}

// Target identifies the node (and optional sub-range) a decorator applies to.
type Target struct {
	SID   string
	Range *Range
}

// Decorator is an ephemeral, render-only annotation. Decorators are never
// persisted in the document model; callers supply them fresh per render.
type Decorator struct {
	SID      string
	SType    string
	Category Category
	Target   Target
	Position Position
}

// TextEdit describes a single text mutation on one node.
type TextEdit struct {
	// Position is the character offset where the edit occurred.
	Position int

	// InsertedLen is the number of characters inserted.
	InsertedLen int

	// DeletedLen is the number of characters deleted.
	DeletedLen int

	// InsertedText is the inserted content, if any.
	InsertedText string
}

// Delta returns the net length change of the edit.
func (e TextEdit) Delta() int {
	return e.InsertedLen - e.DeletedLen
}

// VNode describes one render-tree node: an element, a text leaf, or a
// decorator fragment. An empty Tag marks a text leaf.
type VNode struct {
	Tag   string
	Attrs map[string]any
	Style map[string]string
	Text  string

	Children []*VNode

	// SID is the stable identity key for document nodes and components.
	SID string

	// SType is the semantic type resolved against the template registry.
	SType string

	// Decorator fragment identity. DecoratorSID alone is not unique; several
	// fragments may share it and are distinguished positionally.
	DecoratorSID      string
	DecoratorSType    string
	DecoratorCategory Category
	DecoratorPosition Position

	// Portal, when set, renders Children outside the primary DOM position.
	Portal *PortalSpec

	// DOM is the committed element this node rendered to. Set by the
	// reconciler; reads of previous state come from the retained VNode
	// snapshot, never from re-querying the live tree.
	DOM *html.Node
}

// PortalSpec describes an out-of-tree render target.
type PortalSpec struct {
	// ID keys the portal host across renders.
	ID string

	// Resolve returns the external element the portal mounts under.
	// A nil result skips the portal for the current pass; it is retried
	// on the next render.
	Resolve func() *html.Node
}

// IsText returns true if the node is a text leaf.
func (v *VNode) IsText() bool {
	return v != nil && v.Tag == "" && v.Portal == nil
}

// IsDecorator returns true if the node is a decorator fragment.
func (v *VNode) IsDecorator() bool {
	return v != nil && v.DecoratorSID != ""
}

// TextNode creates a text leaf node.
func TextNode(text string) *VNode {
	return &VNode{Text: text}
}

// Elem creates an element node with the given children.
func Elem(tag string, children ...*VNode) *VNode {
	return &VNode{Tag: tag, Children: children}
}
