// Package weft renders an annotated document model into a DOM tree and
// keeps the two in sync across re-renders.
//
// Persisted inline formatting (marks) and ephemeral render-only
// annotations (decorators) are overlaid onto the document's text, the
// result is expanded into a render tree, and the tree is reconciled
// against the previous committed output so only genuine differences touch
// the DOM. Identity is keyed by stable node ids, so components and DOM
// elements survive reorders, reparenting, and portal moves.
package weft

import (
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/net/html"

	"github.com/dshills/weft/internal/component"
	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/dom"
	"github.com/dshills/weft/internal/fiber"
	"github.com/dshills/weft/internal/interval"
	"github.com/dshills/weft/internal/model"
	"github.com/dshills/weft/internal/reconcile"
	"github.com/dshills/weft/internal/schedule"
	"github.com/dshills/weft/internal/template"
)

var log = commonlog.GetLogger("weft")

// Re-exported pipeline types. The internal packages hold the
// implementations; callers work entirely through these names.
type (
	Range      = core.Range
	Mark       = core.Mark
	Target     = core.Target
	Decorator  = core.Decorator
	TextEdit   = core.TextEdit
	VNode      = core.VNode
	PortalSpec = core.PortalSpec
	Category   = core.Category
	Position   = core.Position

	Template = template.Template
	Context  = template.Context
	Func     = template.Func
	Kind     = template.Kind

	Instance = component.Instance

	Node  = model.Node
	Store = model.Store
	Patch = model.Patch
)

// Decorator categories and positions.
const (
	CategoryInline = core.CategoryInline
	CategoryBlock  = core.CategoryBlock
	CategoryLayer  = core.CategoryLayer

	PositionBefore = core.PositionBefore
	PositionAfter  = core.PositionAfter
)

// Template kinds.
const (
	KindNode      = template.KindNode
	KindMark      = template.KindMark
	KindDecorator = template.KindDecorator
	KindComponent = template.KindComponent
)

// Selection is the caller's current selection, rendered as an ephemeral
// inline decorator on its node.
type Selection struct {
	SID   string
	Range Range
}

// Options tunes a single render pass.
type Options struct {
	// SkipNodes lists sids whose committed DOM subtree must not be
	// touched this pass, typically nodes with uncommitted in-DOM edits.
	SkipNodes map[string]struct{}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStore attaches the document model store used by ApplyTextEdit.
func WithStore(s Store) Option {
	return func(r *Renderer) { r.store = s }
}

// renderInput captures everything needed to repeat a render pass when a
// component state change schedules one.
type renderInput struct {
	container  *html.Node
	node       *Node
	nodes      []*Node
	decorators []Decorator
	runtime    any
	selection  *Selection
	opts       Options
}

// Renderer owns the render pipeline: template registry, component
// instances, per-container portal state, committed render trees, and the
// coalescing re-render scheduler.
type Renderer struct {
	mu         sync.Mutex
	registry   *template.Registry
	writer     *dom.Writer
	components *component.Manager
	scheduler  *schedule.Scheduler
	store      Store

	portals   map[*html.Node]*reconcile.PortalManager
	committed map[*html.Node]*core.VNode
	seen      map[*html.Node]map[string]struct{}
	inputs    map[*html.Node]renderInput
	order     []*html.Node
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		registry:  template.NewRegistry(),
		writer:    dom.NewWriter(),
		portals:   make(map[*html.Node]*reconcile.PortalManager),
		committed: make(map[*html.Node]*core.VNode),
		seen:      make(map[*html.Node]map[string]struct{}),
		inputs:    make(map[*html.Node]renderInput),
	}
	r.components = component.NewManager(func(string) { r.scheduler.Request() })
	r.scheduler = schedule.NewScheduler(r.renderPending)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a template for a semantic type.
func (r *Renderer) Register(stype string, kind Kind, tpl Template) {
	r.registry.Register(stype, kind, tpl)
}

// Render renders one document node, with its decorator set and selection,
// into the container. The previous committed tree for the container drives
// the diff; an identical input produces zero DOM writes.
func (r *Renderer) Render(container *html.Node, node *Node, decorators []Decorator, runtime any, selection *Selection, opts Options) error {
	in := renderInput{
		container:  container,
		node:       node,
		decorators: decorators,
		runtime:    runtime,
		selection:  selection,
		opts:       opts,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordInput(in)
	return r.renderLocked(in)
}

// RenderChildren renders a list of sibling document nodes into the
// container, without decorators.
func (r *Renderer) RenderChildren(container *html.Node, nodes []*Node, runtime any, selection *Selection) error {
	in := renderInput{
		container: container,
		nodes:     nodes,
		runtime:   runtime,
		selection: selection,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recordInput(in)
	return r.renderLocked(in)
}

// FlushPending drains scheduled re-renders. Host integrations call this at
// their cooperative yield point after event handling.
func (r *Renderer) FlushPending() {
	r.scheduler.Flush()
}

// Writes reports how many DOM writes the most recent pass performed.
func (r *Renderer) Writes() int {
	return r.writer.Writes()
}

// MountComponent mounts a component instance outside a render pass. A
// stype not registered as a component is a fatal error; there is no
// placeholder that preserves identity semantics.
func (r *Renderer) MountComponent(sid, stype string, element *html.Node) (*Instance, error) {
	tpl, err := r.registry.ResolveComponent(stype)
	if err != nil {
		return nil, err
	}
	return r.components.Mount(sid, stype, element, tpl), nil
}

// UpdateComponent refreshes a mounted component's element reference.
func (r *Renderer) UpdateComponent(sid string, element *html.Node) (*Instance, bool) {
	return r.components.Update(sid, element)
}

// UnmountComponent destroys a component instance.
func (r *Renderer) UnmountComponent(sid string) bool {
	return r.components.Unmount(sid)
}

// ComponentInstance returns the live instance for a sid.
func (r *Renderer) ComponentInstance(sid string) (*Instance, bool) {
	return r.components.Get(sid)
}

// ApplyTextEdit applies a text edit to the store's node, renormalizing its
// marks, and returns the caller's decorators translated across the edit.
func (r *Renderer) ApplyTextEdit(sid string, edit TextEdit, decorators []Decorator) ([]Decorator, error) {
	if r.store == nil {
		return decorators, ErrNoStore
	}
	if _, err := model.ApplyTextEdit(r.store, sid, edit); err != nil {
		return decorators, err
	}
	return AdjustDecorators(decorators, sid, edit), nil
}

func (r *Renderer) recordInput(in renderInput) {
	if _, ok := r.inputs[in.container]; !ok {
		r.order = append(r.order, in.container)
	}
	r.inputs[in.container] = in
}

// renderPending is the scheduler job: repeat every recorded render with
// its latest inputs.
func (r *Renderer) renderPending() {
	r.mu.Lock()
	inputs := make([]renderInput, 0, len(r.order))
	for _, container := range r.order {
		inputs = append(inputs, r.inputs[container])
	}
	r.mu.Unlock()

	for _, in := range inputs {
		r.mu.Lock()
		err := r.renderLocked(in)
		r.mu.Unlock()
		if err != nil {
			log.Errorf("scheduled re-render failed: %s", err)
		}
	}
}

// renderLocked builds the next render tree and reconciles it against the
// container's committed tree. Callers hold r.mu.
func (r *Renderer) renderLocked(in renderInput) error {
	next, err := r.buildTree(in)
	if err != nil {
		return err
	}

	portals, ok := r.portals[in.container]
	if !ok {
		portals = reconcile.NewPortalManager()
		r.portals[in.container] = portals
	}

	rec := reconcile.New(r.writer, r.registry, r.components, portals)
	r.writer.ResetWrites()
	rec.BeginPass(in.opts.SkipNodes)

	prev := r.committed[in.container]
	if err := rec.Reconcile(fiber.Build(in.container, next, prev)); err != nil {
		return err
	}
	rec.EndPass()

	r.committed[in.container] = next
	r.seen[in.container] = rec.Seen()
	r.components.PruneExcept(r.allSeen())
	return nil
}

// allSeen unions the component sids seen by every container's latest pass,
// so rendering one container never unmounts another's components.
func (r *Renderer) allSeen() map[string]struct{} {
	all := make(map[string]struct{})
	for _, seen := range r.seen {
		for sid := range seen {
			all[sid] = struct{}{}
		}
	}
	return all
}

// NormalizeMarks exposes mark normalization: defaults applied, ranges
// clamped, empties dropped, same-formatting overlaps merged, sorted by
// start. The result is never nil.
func NormalizeMarks(marks []Mark, textLength int) []Mark {
	return interval.NormalizeMarks(marks, textLength)
}

// AdjustDecorators translates decorator ranges across a text edit on the
// named node. Decorators fully inside a deleted span are removed.
func AdjustDecorators(decorators []Decorator, sid string, edit TextEdit) []Decorator {
	return interval.AdjustDecorators(decorators, sid, edit)
}
