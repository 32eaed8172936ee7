// Package template maps semantic type names to render templates.
//
// Resolution is a strategy table: each distinct stype resolves to one
// Template implementation, registered once and shared by every node
// instance of that type.
package template

import (
	"fmt"
	"sync"

	"github.com/dshills/weft/internal/core"
)

// Kind categorizes what a registered template renders.
type Kind uint8

const (
	// KindNode renders a document node.
	KindNode Kind = iota

	// KindMark renders an inline mark wrapper.
	KindMark

	// KindDecorator renders a decorator fragment.
	KindDecorator

	// KindComponent renders a stateful component keyed by sid.
	KindComponent
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindMark:
		return "mark"
	case KindDecorator:
		return "decorator"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// Context carries the inputs a template renders from.
type Context struct {
	// SID is the stable identity of the node being rendered, if any.
	SID string

	// SType is the semantic type being resolved.
	SType string

	// Attrs holds the node's or mark's attributes.
	Attrs map[string]any

	// Text is the literal text for text-bearing templates.
	Text string

	// Children are the pre-built child fragments the wrapper encloses.
	Children []*core.VNode

	// Runtime is the caller-supplied runtime handle, passed through opaquely.
	Runtime any
}

// Template produces the render shape for one semantic type.
type Template interface {
	Render(ctx *Context) *core.VNode
}

// Func adapts a plain function to the Template interface.
type Func func(ctx *Context) *core.VNode

// Render implements Template.
func (f Func) Render(ctx *Context) *core.VNode {
	return f(ctx)
}

// Entry pairs a registered template with its kind.
type Entry struct {
	Kind     Kind
	Template Template
}

// Registry is the template strategy table.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Register adds a template for a semantic type, replacing any previous
// registration.
func (r *Registry) Register(stype string, kind Kind, tpl Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[stype] = Entry{Kind: kind, Template: tpl}
}

// Resolve returns the entry for a semantic type.
func (r *Registry) Resolve(stype string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[stype]
	return entry, ok
}

// ResolveComponent returns the component template for a semantic type.
// A missing component template is fatal to the render: there is no way to
// synthesize a placeholder that preserves identity semantics.
func (r *Registry) ResolveComponent(stype string) (Template, error) {
	entry, ok := r.Resolve(stype)
	if !ok || entry.Kind != KindComponent {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, stype)
	}
	return entry.Template, nil
}

// IsComponent reports whether the semantic type resolves to a component.
func (r *Registry) IsComponent(stype string) bool {
	entry, ok := r.Resolve(stype)
	return ok && entry.Kind == KindComponent
}

// ResolveMark returns the mark template for a type, falling back to a
// generic span wrapper so an unregistered mark never aborts a render.
func (r *Registry) ResolveMark(markType string) Template {
	entry, ok := r.Resolve(markType)
	if ok && entry.Kind == KindMark {
		return entry.Template
	}
	return defaultMarkTemplate(markType)
}

// ResolveDecorator returns the decorator template for a type. A missing
// decorator template yields an inert fallback fragment carrying an error
// marker attribute, so one bad decorator does not abort the document render.
func (r *Registry) ResolveDecorator(stype string) (Template, bool) {
	entry, ok := r.Resolve(stype)
	if ok && entry.Kind == KindDecorator {
		return entry.Template, true
	}
	return fallbackDecoratorTemplate(stype), false
}

// defaultMarkTemplate wraps children in a span classed by mark type.
func defaultMarkTemplate(markType string) Template {
	return Func(func(ctx *Context) *core.VNode {
		return &core.VNode{
			Tag:      "span",
			Attrs:    map[string]any{"class": "mark-" + markType},
			Children: ctx.Children,
		}
	})
}

// fallbackDecoratorTemplate renders an inert fragment for an unknown
// decorator type.
func fallbackDecoratorTemplate(stype string) Template {
	return Func(func(ctx *Context) *core.VNode {
		return &core.VNode{
			Tag: "span",
			Attrs: map[string]any{
				"data-decorator-error": stype,
			},
			Children: ctx.Children,
		}
	})
}
