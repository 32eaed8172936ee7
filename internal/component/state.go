// Package component tracks per-sid component instances across renders.
//
// An instance's lifetime is tied to its sid alone: it survives moves to a
// new parent, a new index, or in and out of a portal. Only a sid vanishing
// from the rendered tree destroys its instance.
package component

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// State is a component's mutable state document. It is a JSON document
// addressed by gjson paths, so templates read and write nested fields
// without defining per-component structs.
type State struct {
	raw []byte
}

// NewState creates an empty state document.
func NewState() *State {
	return &State{raw: []byte(`{}`)}
}

// NewStateFrom creates a state document from an initial JSON payload.
// Invalid JSON falls back to an empty document.
func NewStateFrom(initial string) *State {
	if !gjson.Valid(initial) {
		return NewState()
	}
	return &State{raw: []byte(initial)}
}

// Get reads a value at a gjson path.
func (s *State) Get(path string) gjson.Result {
	return gjson.GetBytes(s.raw, path)
}

// Set writes a value at a gjson path.
func (s *State) Set(path string, value any) error {
	raw, err := sjson.SetBytes(s.raw, path, value)
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// Delete removes a value at a gjson path.
func (s *State) Delete(path string) error {
	raw, err := sjson.DeleteBytes(s.raw, path)
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// JSON returns the state document as a JSON string.
func (s *State) JSON() string {
	return string(s.raw)
}
