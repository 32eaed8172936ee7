package component

import "errors"

// Sentinel errors for component lifecycle operations.
var (
	// ErrReentrantSetState is returned when a component calls SetState
	// synchronously from inside its own render pass.
	ErrReentrantSetState = errors.New("setState called during component render")

	// ErrInstanceNotFound is returned when an operation references a sid
	// with no mounted instance.
	ErrInstanceNotFound = errors.New("component instance not found")
)
