package component

import (
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/net/html"
)

var log = commonlog.GetLogger("weft.component")

// StateHooks receives lifecycle notifications for a component instance.
type StateHooks interface {
	// Mount is called once, after the instance's first commit.
	Mount(inst *Instance)

	// Unmount is called when the instance's sid leaves the tree.
	Unmount(inst *Instance)
}

// StateFactory is implemented by component templates that keep a state
// instance per mounted sid.
type StateFactory interface {
	NewState() StateHooks
}

// Instance is one mounted component, keyed by sid.
type Instance struct {
	// SID is the stable identity this instance is keyed by.
	SID string

	// SType is the component's semantic type.
	SType string

	// State is the instance's JSON state document.
	State *State

	// Element is the DOM element the component most recently rendered to.
	// Updated on every pass; the instance itself survives element changes.
	Element *html.Node

	// Hooks is the optional state instance created by the template.
	Hooks StateHooks

	manager   *Manager
	rendering bool
}

// SetState writes a value into the instance's state document and requests a
// coalesced re-render. Calls issued from inside the component's own render
// pass are rejected with a diagnostic to prevent re-entrant render loops.
func (inst *Instance) SetState(path string, value any) error {
	if inst.rendering {
		log.Warningf("rejecting setState on %q during its own render", inst.SID)
		return ErrReentrantSetState
	}
	if err := inst.State.Set(path, value); err != nil {
		return err
	}
	if inst.manager != nil && inst.manager.onChange != nil {
		inst.manager.onChange(inst.SID)
	}
	return nil
}

// Manager owns all live component instances.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance
	onChange  func(sid string)
}

// NewManager creates a component manager. The onChange callback fires after
// every accepted SetState; the renderer uses it to schedule a re-render.
func NewManager(onChange func(sid string)) *Manager {
	return &Manager{
		instances: make(map[string]*Instance),
		onChange:  onChange,
	}
}

// Mount creates the instance for a first-seen sid. The template is probed
// for a state factory; if it has one, the state instance is created lazily
// here and its mount hook runs. Mounting an already-mounted sid returns the
// existing instance untouched.
func (m *Manager) Mount(sid, stype string, element *html.Node, tpl any) *Instance {
	m.mu.Lock()
	if existing, ok := m.instances[sid]; ok {
		existing.Element = element
		m.mu.Unlock()
		return existing
	}

	inst := &Instance{
		SID:     sid,
		SType:   stype,
		State:   NewState(),
		Element: element,
		manager: m,
	}
	if factory, ok := tpl.(StateFactory); ok {
		inst.Hooks = factory.NewState()
	}
	m.instances[sid] = inst
	m.mu.Unlock()

	if inst.Hooks != nil {
		inst.Hooks.Mount(inst)
	}
	return inst
}

// Update refreshes the instance's element reference on a repeat sighting.
func (m *Manager) Update(sid string, element *html.Node) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instances[sid]
	if !ok {
		return nil, false
	}
	inst.Element = element
	return inst, true
}

// Unmount destroys the instance for a sid, running its unmount hook.
func (m *Manager) Unmount(sid string) bool {
	m.mu.Lock()
	inst, ok := m.instances[sid]
	if ok {
		delete(m.instances, sid)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	if inst.Hooks != nil {
		inst.Hooks.Unmount(inst)
	}
	return true
}

// Get returns the instance for a sid.
func (m *Manager) Get(sid string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[sid]
	return inst, ok
}

// Count returns the number of live instances.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.instances)
}

// PruneExcept unmounts every instance whose sid is not in seen, returning
// the pruned sids. Called at the end of a render pass.
func (m *Manager) PruneExcept(seen map[string]struct{}) []string {
	m.mu.RLock()
	var gone []string
	for sid := range m.instances {
		if _, ok := seen[sid]; !ok {
			gone = append(gone, sid)
		}
	}
	m.mu.RUnlock()

	for _, sid := range gone {
		m.Unmount(sid)
	}
	return gone
}

// BeginRender marks an instance as inside its own render pass.
func (m *Manager) BeginRender(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok := m.instances[sid]; ok {
		inst.rendering = true
	}
}

// EndRender clears the in-render flag.
func (m *Manager) EndRender(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok := m.instances[sid]; ok {
		inst.rendering = false
	}
}
