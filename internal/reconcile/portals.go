package reconcile

import (
	"sort"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/dom"
	"github.com/dshills/weft/internal/fiber"
)

// portalHost is the mounted state for one portal id. Each portal owns a
// wrapper element under its target, so two portals sharing a target never
// fight over child indices.
type portalHost struct {
	id        string
	target    *html.Node
	host      *html.Node
	committed *core.VNode
}

// PortalManager keys mounted portal content by portal id across renders.
type PortalManager struct {
	mu      sync.Mutex
	hosts   map[string]*portalHost
	visited map[string]struct{}
}

// NewPortalManager creates an empty portal manager.
func NewPortalManager() *PortalManager {
	return &PortalManager{
		hosts: make(map[string]*portalHost),
	}
}

// Host returns the wrapper element mounted for a portal id.
func (p *PortalManager) Host(id string) (*html.Node, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.hosts[id]
	if !ok {
		return nil, false
	}
	return h.host, true
}

// Count returns the number of mounted portals.
func (p *PortalManager) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.hosts)
}

func (p *PortalManager) beginPass() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visited = make(map[string]struct{})
}

// render mounts or patches one portal sighting. An unresolved target skips
// the portal for this pass without tearing down content already mounted;
// the resolver is retried on the next render.
func (p *PortalManager) render(r *Reconciler, v *core.VNode) error {
	spec := v.Portal

	p.mu.Lock()
	p.visited[spec.ID] = struct{}{}
	h := p.hosts[spec.ID]
	p.mu.Unlock()

	var target *html.Node
	if spec.Resolve != nil {
		target = spec.Resolve()
	}
	if target == nil {
		if h == nil {
			log.Warningf("portal %q target unresolved, deferring mount", spec.ID)
			return nil
		}
		// Keep existing content and the components inside it alive.
		for _, c := range h.committed.Children {
			r.markPreserved(c)
		}
		return nil
	}

	if h == nil {
		hostEl := dom.NewElement("div", target.Namespace == dom.SVGNamespace)
		r.writer.ApplyAttrs(hostEl, nil, map[string]any{"data-portal": spec.ID})
		r.writer.InsertChildAt(target, hostEl, dom.ChildCount(target))
		h = &portalHost{
			id:        spec.ID,
			target:    target,
			host:      hostEl,
			committed: &core.VNode{Tag: "div", DOM: hostEl},
		}
		p.mu.Lock()
		p.hosts[spec.ID] = h
		p.mu.Unlock()
	} else if h.target != target {
		// The host element moves wholesale; content inside keeps its DOM
		// and its component instances.
		if h.host.Parent != nil {
			r.writer.RemoveChild(h.host.Parent, h.host)
		}
		r.writer.InsertChildAt(target, h.host, dom.ChildCount(target))
		h.target = target
	}

	next := &core.VNode{Tag: "div", Children: v.Children}
	ft := fiber.Build(h.host, next, h.committed)
	if err := r.Reconcile(ft); err != nil {
		return err
	}
	next.DOM = h.host
	h.committed = next
	return nil
}

// keep marks a portal visited without re-rendering it, used for portals
// inside skipped subtrees.
func (p *PortalManager) keep(r *Reconciler, id string) {
	p.mu.Lock()
	p.visited[id] = struct{}{}
	h := p.hosts[id]
	p.mu.Unlock()

	if h == nil {
		return
	}
	for _, c := range h.committed.Children {
		r.markPreserved(c)
	}
}

// endPass removes every portal not visited this pass and returns the torn
// down ids, sorted for determinism.
func (p *PortalManager) endPass(r *Reconciler) []string {
	p.mu.Lock()
	var gone []*portalHost
	for id, h := range p.hosts {
		if _, ok := p.visited[id]; !ok {
			gone = append(gone, h)
			delete(p.hosts, id)
		}
	}
	p.mu.Unlock()

	ids := make([]string, 0, len(gone))
	for _, h := range gone {
		if h.host.Parent != nil {
			r.writer.RemoveChild(h.host.Parent, h.host)
		}
		ids = append(ids, h.id)
	}
	sort.Strings(ids)
	return ids
}
