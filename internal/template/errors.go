package template

import "errors"

// Sentinel errors for template resolution.
var (
	// ErrUnknownComponent is returned when a component stype has no
	// registered template. This is fatal at render time.
	ErrUnknownComponent = errors.New("unknown component type")
)
