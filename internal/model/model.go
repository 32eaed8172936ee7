// Package model defines the document model boundary the renderer renders
// from, plus an in-memory store used by tests and the demo binary.
//
// The renderer never mutates the model silently: normalized marks are
// persisted back through UpdateNode so overlays and listeners observe the
// change.
package model

import (
	"sync"

	"github.com/dshills/weft/internal/core"
	"github.com/dshills/weft/internal/interval"
)

// Node is one document node. Text-bearing nodes carry Marks; container
// nodes carry Children.
type Node struct {
	SID      string
	SType    string
	Text     string
	Marks    []core.Mark
	Attrs    map[string]any
	Children []*Node
}

// IsText returns true if the node carries literal text.
func (n *Node) IsText() bool {
	return n != nil && len(n.Children) == 0
}

// TextLength returns the node's text length in runes.
func (n *Node) TextLength() int {
	return len([]rune(n.Text))
}

// Patch describes a partial node update. Nil fields are left untouched; a
// non-nil Marks pointer replaces the mark set even when it points at an
// empty slice.
type Patch struct {
	Text  *string
	Marks *[]core.Mark
	Attrs map[string]any
}

// Op records one applied model mutation, for listeners that mirror edits
// elsewhere.
type Op struct {
	SID   string
	Field string
	Old   any
	New   any
}

// Store is the document model boundary the renderer collaborates with.
type Store interface {
	GetNode(sid string) (*Node, bool)
	UpdateNode(sid string, patch Patch, emitOps bool) error
	GetAllNodes() []*Node
}

// MemoryStore is a Store backed by a map, preserving insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
	ops   []Op
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]*Node),
	}
}

// AddNode registers a node and, recursively, its children.
func (s *MemoryStore) AddNode(n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(n)
}

func (s *MemoryStore) addLocked(n *Node) {
	if n == nil || n.SID == "" {
		return
	}
	if _, ok := s.nodes[n.SID]; !ok {
		s.order = append(s.order, n.SID)
	}
	s.nodes[n.SID] = n
	for _, c := range n.Children {
		s.addLocked(c)
	}
}

// GetNode implements Store.
func (s *MemoryStore) GetNode(sid string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[sid]
	return n, ok
}

// UpdateNode implements Store.
func (s *MemoryStore) UpdateNode(sid string, patch Patch, emitOps bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[sid]
	if !ok {
		return ErrNodeNotFound
	}

	if patch.Text != nil {
		if emitOps {
			s.ops = append(s.ops, Op{SID: sid, Field: "text", Old: n.Text, New: *patch.Text})
		}
		n.Text = *patch.Text
	}
	if patch.Marks != nil {
		if emitOps {
			s.ops = append(s.ops, Op{SID: sid, Field: "marks", Old: n.Marks, New: *patch.Marks})
		}
		n.Marks = *patch.Marks
	}
	for k, v := range patch.Attrs {
		if emitOps {
			var old any
			if n.Attrs != nil {
				old = n.Attrs[k]
			}
			s.ops = append(s.ops, Op{SID: sid, Field: "attrs." + k, Old: old, New: v})
		}
		if n.Attrs == nil {
			n.Attrs = make(map[string]any)
		}
		n.Attrs[k] = v
	}
	return nil
}

// GetAllNodes implements Store, in insertion order.
func (s *MemoryStore) GetAllNodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Node, 0, len(s.order))
	for _, sid := range s.order {
		out = append(out, s.nodes[sid])
	}
	return out
}

// Ops returns the mutation log.
func (s *MemoryStore) Ops() []Op {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Op(nil), s.ops...)
}

// NormalizeMarks normalizes a node's marks against its current text and
// persists the result. When every mark dies an explicit empty slice is
// stored, never nil, so listeners observe the change.
func NormalizeMarks(s Store, sid string, emitOps bool) error {
	n, ok := s.GetNode(sid)
	if !ok {
		return ErrNodeNotFound
	}
	marks := interval.NormalizeMarks(n.Marks, n.TextLength())
	return s.UpdateNode(sid, Patch{Marks: &marks}, emitOps)
}

// ApplyTextEdit applies a single text edit to a node: the text is spliced,
// mark ranges are translated through the edit and renormalized, and the
// result is persisted with ops emitted. The edit is returned for decorator
// adjustment by the caller.
func ApplyTextEdit(s Store, sid string, edit core.TextEdit) (core.TextEdit, error) {
	n, ok := s.GetNode(sid)
	if !ok {
		return edit, ErrNodeNotFound
	}

	runes := []rune(n.Text)
	pos := edit.Position
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	delEnd := pos + edit.DeletedLen
	if delEnd > len(runes) {
		delEnd = len(runes)
	}

	var b []rune
	b = append(b, runes[:pos]...)
	b = append(b, []rune(edit.InsertedText)...)
	b = append(b, runes[delEnd:]...)
	newText := string(b)

	marks := make([]core.Mark, 0, len(n.Marks))
	for _, m := range n.Marks {
		if m.Range == nil {
			marks = append(marks, m)
			continue
		}
		r, ok := interval.TranslateRange(*m.Range, edit)
		if !ok {
			continue
		}
		m.Range = &r
		marks = append(marks, m)
	}
	marks = interval.NormalizeMarks(marks, len(b))

	err := s.UpdateNode(sid, Patch{Text: &newText, Marks: &marks}, true)
	return edit, err
}
